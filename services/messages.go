package services

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skyview-backend/models"
	"skyview-backend/utils"
)

const placeholderBookingID = "N/A"

var titleCaser = cases.Title(language.English)

// humanize turns form values like "deep-cleaning" into "Deep Cleaning".
func humanize(value string) string {
	return titleCaser.String(strings.ReplaceAll(strings.TrimSpace(value), "-", " "))
}

func additionalServicesText(list models.StringList) string {
	if len(list) == 0 {
		return "None"
	}
	return strings.Join(list, ", ")
}

func writeServiceDetails(sb *strings.Builder, b *models.Booking) {
	fmt.Fprintf(sb, "• Service: %s\n", humanize(b.ServiceType))
	fmt.Fprintf(sb, "• Frequency: %s\n", humanize(b.Frequency))
	fmt.Fprintf(sb, "• Date: %s\n", utils.FormatDate(b.PreferredDate))
	fmt.Fprintf(sb, "• Time: %s\n", b.PreferredTime)
	if b.FlatType != nil && *b.FlatType != "" {
		fmt.Fprintf(sb, "• Flat: %s\n", *b.FlatType)
	}
	fmt.Fprintf(sb, "• Property: %s bed, %s bath\n\n", b.Bedrooms, b.Bathrooms)
	fmt.Fprintf(sb, "*Additional Services:* %s\n\n", additionalServicesText(b.AdditionalServices))
	fmt.Fprintf(sb, "*Address:* %s\n\n", b.Address)
	if b.SpecialInstructions != nil && *b.SpecialInstructions != "" {
		fmt.Fprintf(sb, "*Special Instructions:* %s\n\n", *b.SpecialInstructions)
	}
}

func adminAlertText(appName string, b *models.Booking, bookingID string, previous int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *New Booking Alert - %s*\n\n", appName)
	sb.WriteString("*Customer Information:*\n")
	fmt.Fprintf(&sb, "• Name: %s\n", b.Name)
	fmt.Fprintf(&sb, "• Phone: %s\n", b.Phone)
	fmt.Fprintf(&sb, "• Email: %s\n", b.Email)
	if previous > 0 {
		fmt.Fprintf(&sb, "• Returning customer: %d previous booking(s)\n", previous)
	}
	sb.WriteString("\n*Service Details:*\n")
	writeServiceDetails(&sb, b)
	fmt.Fprintf(&sb, "*Booking ID:* %s\n\n", bookingID)
	sb.WriteString("Please review and confirm this booking in the admin dashboard.\n\n")
	sb.WriteString("Action required: Contact customer within 24 hours.")
	return sb.String()
}

func customerConfirmationText(appName, contactPhone string, b *models.Booking, bookingID string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 *Booking Confirmation - %s*\n\n", appName)
	fmt.Fprintf(&sb, "Dear %s,\n\n", b.Name)
	fmt.Fprintf(&sb, "Thank you for choosing %s! Your booking has been successfully received.\n\n", appName)
	sb.WriteString("*Booking Details:*\n")
	writeServiceDetails(&sb, b)
	sb.WriteString("We will contact you within 24 hours to confirm your appointment and discuss any specific requirements.\n\n")
	fmt.Fprintf(&sb, "*Booking ID:* %s\n\n", bookingID)
	if contactPhone != "" {
		fmt.Fprintf(&sb, "For any questions, please contact us at %s.\n\n", contactPhone)
	}
	fmt.Fprintf(&sb, "Thank you for trusting %s! 🏠✨", appName)
	return sb.String()
}

// submissionMessage picks the reply text from the number of earlier bookings.
func submissionMessage(appName, name string, previous int64) string {
	switch {
	case previous <= 0:
		return "Booking submitted successfully! We will contact you soon to confirm your appointment."
	case previous == 1:
		return fmt.Sprintf("Welcome back, %s! Thank you for choosing %s again. We will contact you soon to confirm your appointment.", name, appName)
	case previous == 2:
		return fmt.Sprintf("Welcome back, %s! This is your %s booking with us. We will contact you soon to confirm your appointment.", name, ordinal(previous+1))
	default:
		return fmt.Sprintf("Thank you for being a loyal customer, %s! This is your %s booking with %s. We will contact you soon to confirm your appointment.", name, ordinal(previous+1), appName)
	}
}

func ordinal(n int64) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func digestText(appName string, day time.Time, bookings []models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 *%s - bookings for %s*\n\n", appName, day.Format("Mon, 02 Jan 2006"))
	if len(bookings) == 0 {
		sb.WriteString("No bookings scheduled today.")
		return sb.String()
	}
	for i, b := range bookings {
		fmt.Fprintf(&sb, "%d. %s %s - %s (%s)\n", i+1, b.PreferredTime, b.Name, humanize(b.ServiceType), b.Status)
		fmt.Fprintf(&sb, "   %s | %s\n", b.Phone, b.Address)
	}
	fmt.Fprintf(&sb, "\nTotal: %d", len(bookings))
	return sb.String()
}
