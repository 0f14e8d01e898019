package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skyview-backend/repository"
	"skyview-backend/services"
	"skyview-backend/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BookingController struct {
	bookings BookingService
	log      Logger
}

func NewBookingController(bookings BookingService, log Logger) *BookingController {
	return &BookingController{bookings: bookings, log: log}
}

type ValidateCustomerInput struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SubmitBooking handles the public booking form.
func (bc *BookingController) SubmitBooking(c *gin.Context) {
	var input services.SubmitBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := bc.bookings.Submit(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		bc.log.Error("Booking submission failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to submit booking. Please try again or contact us directly.")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ValidateCustomer always answers 200; malformed input gets the default result.
func (bc *BookingController) ValidateCustomer(c *gin.Context) {
	var input ValidateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusOK, &services.CustomerCheckResult{Success: true, Message: "Validation completed with default values"})
		return
	}
	c.JSON(http.StatusOK, bc.bookings.CheckCustomer(c.Request.Context(), input.Email, input.Phone))
}

func parseIncludePast(c *gin.Context) (*bool, error) {
	raw, ok := c.GetQuery("includePast")
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (bc *BookingController) GetBookings(c *gin.Context) {
	includePast, err := parseIncludePast(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "includePast must be true or false")
		return
	}

	bookings, err := bc.bookings.List(c.Request.Context(), c.Query("tab"), includePast)
	if err != nil {
		bc.respondBookingError(c, err, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// ExportBookings returns the filtered list as an .xlsx download.
func (bc *BookingController) ExportBookings(c *gin.Context) {
	includePast, err := parseIncludePast(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "includePast must be true or false")
		return
	}

	bookings, err := bc.bookings.List(c.Request.Context(), c.Query("tab"), includePast)
	if err != nil {
		bc.respondBookingError(c, err, "Failed to retrieve bookings")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteBookingsWorkbook(&buf, bookings); err != nil {
		bc.log.Error("Booking export failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to export bookings")
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bc.bookings.Get(c.Request.Context(), id)
	if err != nil {
		bc.respondBookingError(c, err, "Failed to retrieve booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// UpdateBooking applies a partial update; only fields present in the body change.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input services.UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.bookings.Update(c.Request.Context(), id, input)
	if err != nil {
		bc.respondBookingError(c, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking updated successfully",
		"booking": booking,
	})
}

func (bc *BookingController) respondBookingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
	default:
		bc.log.Error("%s: %v", fallback, err)
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
