package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skyview-backend/metrics"
	"skyview-backend/models"
	"skyview-backend/repository"
	"skyview-backend/utils"
)

type BookingOptions struct {
	AppName        string
	ContactPhone   string
	Location       *time.Location
	NotifyCustomer bool
}

type BookingService struct {
	bookings  BookingStore
	logs      NotificationLogStore
	messenger Messenger
	telegram  AdminNotifier
	metrics   *metrics.Metrics
	log       Logger
	opts      BookingOptions
	now       func() time.Time
}

func NewBookingService(
	bookings BookingStore,
	logs NotificationLogStore,
	messenger Messenger,
	telegram AdminNotifier,
	m *metrics.Metrics,
	log Logger,
	opts BookingOptions,
) *BookingService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &BookingService{
		bookings:  bookings,
		logs:      logs,
		messenger: messenger,
		telegram:  telegram,
		metrics:   m,
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
}

type SubmitBookingInput struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	ServiceType         string   `json:"serviceType"`
	Frequency           string   `json:"frequency"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	FlatType            string   `json:"flatType"`
	Bedrooms            string   `json:"bedrooms"`
	Bathrooms           string   `json:"bathrooms"`
	AdditionalServices  []string `json:"additionalServices"`
	SpecialInstructions string   `json:"specialInstructions"`
}

type WhatsAppResult struct {
	AdminSent     bool    `json:"adminSent"`
	AdminError    *string `json:"adminError"`
	CustomerSent  bool    `json:"customerSent"`
	CustomerError *string `json:"customerError,omitempty"`
}

type ChannelResult struct {
	Sent  bool    `json:"sent"`
	Error *string `json:"error,omitempty"`
}

type SubmitResult struct {
	Success               bool           `json:"success"`
	Message               string         `json:"message"`
	BookingID             string         `json:"bookingId"`
	IsReturningCustomer   bool           `json:"isReturningCustomer"`
	PreviousBookings      int64          `json:"previousBookings"`
	WhatsAppNotifications WhatsAppResult `json:"whatsappNotifications"`
	TelegramNotification  *ChannelResult `json:"telegramNotification,omitempty"`
	Warnings              []string       `json:"warnings,omitempty"`
}

// Submit validates and stores a booking, then notifies the admin and optionally the customer.
// Only validation errors are returned; every later failure is reported inside the result.
func (s *BookingService) Submit(ctx context.Context, in SubmitBookingInput) (*SubmitResult, error) {
	booking, err := s.newBooking(in)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{BookingID: placeholderBookingID}

	previous, err := s.bookings.CountByContact(ctx, booking.Email, booking.Phone)
	if err != nil {
		s.log.Warn("Customer lookup failed for %s: %v", booking.Phone, err)
		result.Warnings = append(result.Warnings, "Customer history lookup failed")
		previous = 0
	}
	result.PreviousBookings = previous
	result.IsReturningCustomer = previous > 0

	var bookingRef *uuid.UUID
	if err := s.bookings.Create(ctx, booking); err != nil {
		s.log.Error("Failed to save booking for %s: %v", booking.Phone, err)
		result.Warnings = append(result.Warnings, "Booking could not be saved")
		s.metrics.IncBooking("failed")
	} else {
		result.Success = true
		result.BookingID = booking.ID.String()
		id := booking.ID
		bookingRef = &id
		s.metrics.IncBooking("persisted")
		if result.IsReturningCustomer {
			s.metrics.IncReturningCustomer()
		}
		s.log.Info("Booking %s saved (previous bookings: %d)", result.BookingID, previous)
	}

	result.WhatsAppNotifications = s.notifyWhatsApp(ctx, booking, bookingRef, result.BookingID, previous)
	result.TelegramNotification = s.notifyTelegram(ctx, booking, bookingRef, result.BookingID, previous)

	if result.Success {
		result.Message = submissionMessage(s.opts.AppName, booking.Name, previous)
	} else {
		result.Message = "We could not save your booking. Please try again or contact us directly"
		if s.opts.ContactPhone != "" {
			result.Message += " at " + s.opts.ContactPhone
		}
		result.Message += "."
	}
	return result, nil
}

func (s *BookingService) newBooking(in SubmitBookingInput) (*models.Booking, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.Time = strings.TrimSpace(in.Time)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"phone", in.Phone},
		{"address", in.Address},
		{"serviceType", in.ServiceType},
		{"date", in.Date},
		{"time", in.Time},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, invalid("Missing required fields: %s", strings.Join(missing, ", "))
	}

	if !utils.ValidatePhone(in.Phone) {
		return nil, invalid("Invalid phone number format")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return nil, invalid("Invalid email address")
	}

	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return nil, invalid("Invalid date, expected YYYY-MM-DD")
	}
	if date.Before(utils.Today(s.now(), s.opts.Location)) {
		return nil, invalid("Preferred date cannot be in the past")
	}

	booking := &models.Booking{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		ServiceType:        in.ServiceType,
		Frequency:          strings.TrimSpace(in.Frequency),
		PreferredDate:      date,
		PreferredTime:      in.Time,
		Bedrooms:           strings.TrimSpace(in.Bedrooms),
		Bathrooms:          strings.TrimSpace(in.Bathrooms),
		AdditionalServices: cleanList(in.AdditionalServices),
		Status:             models.StatusPending,
	}
	if v := strings.TrimSpace(in.FlatType); v != "" {
		booking.FlatType = &v
	}
	if v := strings.TrimSpace(in.SpecialInstructions); v != "" {
		booking.SpecialInstructions = &v
	}
	return booking, nil
}

func cleanList(values []string) models.StringList {
	out := models.StringList{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *BookingService) notifyWhatsApp(ctx context.Context, b *models.Booking, ref *uuid.UUID, bookingID string, previous int64) WhatsAppResult {
	var res WhatsAppResult

	if !s.messenger.IsConfigured() {
		reason := ErrNotConfigured.Error()
		res.AdminError = &reason
		s.record(ctx, models.NotificationLog{
			BookingID: ref, Channel: models.ChannelWhatsApp, Recipient: s.messenger.AdminRecipient(),
			Kind: models.KindAdminAlert, Status: models.NotificationSkipped, ErrorMessage: reason,
		})
		if s.opts.NotifyCustomer {
			res.CustomerError = &reason
		}
		return res
	}

	body := adminAlertText(s.opts.AppName, b, bookingID, previous)
	admin := s.messenger.AdminRecipient()
	if admin == "" {
		reason := ErrNoAdminRecipient.Error()
		res.AdminError = &reason
		s.record(ctx, models.NotificationLog{
			BookingID: ref, Channel: models.ChannelWhatsApp, Kind: models.KindAdminAlert,
			Message: body, Status: models.NotificationSkipped, ErrorMessage: reason,
		})
	} else {
		sid, err := s.messenger.SendText(ctx, admin, body)
		res.AdminSent, res.AdminError = outcome(err)
		s.record(ctx, attempt(ref, models.ChannelWhatsApp, admin, models.KindAdminAlert, body, sid, err))
		if err != nil {
			s.log.Warn("Admin WhatsApp notification for booking %s failed: %v", bookingID, err)
		}
	}

	if s.opts.NotifyCustomer {
		var (
			sid  string
			err  error
			body string
		)
		if s.messenger.HasTemplate() {
			body = "template"
			sid, err = s.messenger.SendTemplate(ctx, b.Phone, map[string]string{"1": b.Name})
		} else {
			body = customerConfirmationText(s.opts.AppName, s.opts.ContactPhone, b, bookingID)
			sid, err = s.messenger.SendText(ctx, b.Phone, body)
		}
		res.CustomerSent, res.CustomerError = outcome(err)
		s.record(ctx, attempt(ref, models.ChannelWhatsApp, b.Phone, models.KindCustomerConfirmation, body, sid, err))
		if err != nil {
			s.log.Warn("Customer WhatsApp notification for booking %s failed: %v", bookingID, err)
		}
	}

	return res
}

func (s *BookingService) notifyTelegram(ctx context.Context, b *models.Booking, ref *uuid.UUID, bookingID string, previous int64) *ChannelResult {
	if s.telegram == nil || !s.telegram.Enabled() {
		return nil
	}
	body := adminAlertText(s.opts.AppName, b, bookingID, previous)
	err := s.telegram.Notify(ctx, body)
	if err != nil {
		s.log.Warn("Telegram notification for booking %s failed: %v", bookingID, err)
	}
	sent, reason := outcome(err)
	s.record(ctx, attempt(ref, models.ChannelTelegram, s.telegram.Recipient(), models.KindAdminAlert, body, "", err))
	return &ChannelResult{Sent: sent, Error: reason}
}

func outcome(err error) (bool, *string) {
	if err == nil {
		return true, nil
	}
	msg := err.Error()
	return false, &msg
}

func attempt(ref *uuid.UUID, channel, recipient, kind, body, providerID string, err error) models.NotificationLog {
	entry := models.NotificationLog{
		BookingID:  ref,
		Channel:    channel,
		Recipient:  recipient,
		Kind:       kind,
		Message:    body,
		Status:     models.NotificationSent,
		ProviderID: providerID,
	}
	if err != nil {
		entry.Status = models.NotificationFailed
		entry.ErrorMessage = err.Error()
	}
	return entry
}

// record stores a notification attempt. Failures are only logged.
func (s *BookingService) record(ctx context.Context, entry models.NotificationLog) {
	recordNotification(ctx, s.logs, s.metrics, s.log, entry, s.now())
}

func recordNotification(ctx context.Context, logs NotificationLogStore, m *metrics.Metrics, log Logger, entry models.NotificationLog, at time.Time) {
	m.IncNotification(entry.Channel, entry.Kind, entry.Status)
	if logs == nil {
		return
	}
	entry.SentAt = at
	if err := logs.Create(ctx, &entry); err != nil {
		log.Warn("Failed to log %s %s notification: %v", entry.Channel, entry.Kind, err)
	}
}

type FieldMatch struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

type ContactValidation struct {
	Email FieldMatch `json:"email"`
	Phone FieldMatch `json:"phone"`
}

type CustomerCheckResult struct {
	Success             bool              `json:"success"`
	Validation          ContactValidation `json:"validation"`
	IsReturningCustomer bool              `json:"isReturningCustomer"`
	PreviousBookings    int64             `json:"previousBookings"`
	Message             string            `json:"message,omitempty"`
}

// CheckCustomer reports whether earlier bookings exist for the email or phone.
// Lookup errors are logged and produce the default "no match" result.
func (s *BookingService) CheckCustomer(ctx context.Context, email, phone string) *CustomerCheckResult {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	result := &CustomerCheckResult{Success: true}
	if email == "" && phone == "" {
		result.Message = "No validation data provided"
		return result
	}

	latest, err := s.bookings.LatestByContact(ctx, email, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return result
	}
	if err != nil {
		s.log.Warn("Customer validation lookup failed: %v", err)
		return &CustomerCheckResult{Success: true}
	}

	// Only the most recent matching booking decides which fields are flagged.
	if email != "" && latest.Email == email {
		result.Validation.Email = FieldMatch{Exists: true, Message: "Welcome back! We found a previous booking with this email."}
	}
	if phone != "" && latest.Phone == phone {
		result.Validation.Phone = FieldMatch{Exists: true, Message: "Welcome back! We found a previous booking with this phone number."}
	}

	result.IsReturningCustomer = result.Validation.Email.Exists || result.Validation.Phone.Exists
	if result.IsReturningCustomer {
		n, err := s.bookings.CountByContact(ctx, email, phone)
		if err != nil {
			s.log.Warn("Customer validation count failed: %v", err)
		} else {
			result.PreviousBookings = n
		}
	}
	return result
}

// List returns bookings for the given tab, with "today" taken in the business timezone.
func (s *BookingService) List(ctx context.Context, tab string, includePast *bool) ([]models.Booking, error) {
	resolved, err := repository.ResolveTab(tab, includePast)
	if err != nil {
		return nil, invalid("Invalid tab %q", tab)
	}
	return s.bookings.List(ctx, repository.BookingFilter{
		Tab:   resolved,
		Today: utils.Today(s.now(), s.opts.Location),
	})
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// UpdateBookingInput is a partial update: nil fields are left untouched.
type UpdateBookingInput struct {
	Status              *string   `json:"status"`
	Remarks             *string   `json:"remarks"`
	PaymentAmount       *float64  `json:"paymentAmount"`
	PaymentType         *string   `json:"paymentType"`
	Name                *string   `json:"name"`
	Email               *string   `json:"email"`
	Phone               *string   `json:"phone"`
	Address             *string   `json:"address"`
	ServiceType         *string   `json:"serviceType"`
	Frequency           *string   `json:"frequency"`
	PreferredDate       *string   `json:"preferredDate"`
	PreferredTime       *string   `json:"preferredTime"`
	FlatType            *string   `json:"flatType"`
	Bedrooms            *string   `json:"bedrooms"`
	Bathrooms           *string   `json:"bathrooms"`
	AdditionalServices  *[]string `json:"additionalServices"`
	SpecialInstructions *string   `json:"specialInstructions"`
}

// Fields converts the input into column updates.
func (in UpdateBookingInput) Fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if in.Status != nil {
		status := models.BookingStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !status.Valid() {
			return nil, invalid("Invalid status %q", *in.Status)
		}
		fields["status"] = status
	}

	if in.PaymentType != nil {
		v := strings.ToUpper(strings.TrimSpace(*in.PaymentType))
		if v == "" {
			fields["payment_type"] = nil
		} else if pt := models.PaymentType(v); pt.Valid() {
			fields["payment_type"] = pt
		} else {
			return nil, invalid("Invalid payment type %q", *in.PaymentType)
		}
	}

	if in.PaymentAmount != nil {
		if *in.PaymentAmount < 0 {
			return nil, invalid("Payment amount cannot be negative")
		}
		fields["payment_amount"] = *in.PaymentAmount
	}

	required := []struct {
		column string
		value  *string
	}{
		{"name", in.Name},
		{"phone", in.Phone},
		{"address", in.Address},
		{"service_type", in.ServiceType},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, invalid("%s cannot be empty", f.column)
		}
		fields[f.column] = v
	}

	plain := []struct {
		column string
		value  *string
	}{
		{"email", in.Email},
		{"frequency", in.Frequency},
		{"preferred_time", in.PreferredTime},
		{"bedrooms", in.Bedrooms},
		{"bathrooms", in.Bathrooms},
	}
	for _, f := range plain {
		if f.value != nil {
			fields[f.column] = strings.TrimSpace(*f.value)
		}
	}

	nullable := []struct {
		column string
		value  *string
	}{
		{"remarks", in.Remarks},
		{"flat_type", in.FlatType},
		{"special_instructions", in.SpecialInstructions},
	}
	for _, f := range nullable {
		if f.value == nil {
			continue
		}
		if v := strings.TrimSpace(*f.value); v != "" {
			fields[f.column] = v
		} else {
			fields[f.column] = nil
		}
	}

	if in.PreferredDate != nil {
		date, err := utils.ParseDate(*in.PreferredDate)
		if err != nil {
			return nil, invalid("Invalid preferred date, expected YYYY-MM-DD")
		}
		fields["preferred_date"] = date
	}

	if in.AdditionalServices != nil {
		fields["additional_services"] = cleanList(*in.AdditionalServices)
	}

	return fields, nil
}

// Update applies a partial update. An empty patch returns the booking unchanged.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, in UpdateBookingInput) (*models.Booking, error) {
	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.Update(ctx, id, fields)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("Failed to update booking %s: %v", id, err)
		}
		return nil, err
	}
	s.log.Info("Booking %s updated (%s)", id, fieldNames(fields))
	return booking, nil
}

func fieldNames(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return "no changes"
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
