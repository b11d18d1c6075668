package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name       string `json:"name" binding:"required"`
	Gender     string `json:"gender" binding:"required"`
	Age        int    `json:"age" binding:"gte=0"`
	SeatNumber string `json:"seat_number" binding:"required"`
}

type bookTicketRequest struct {
	UserName     string             `json:"user_name" binding:"required"`
	UserEmail    string             `json:"user_email" binding:"required,email"`
	MobileNumber string             `json:"mobile_number" binding:"required"`
	JourneyDate  string             `json:"journey_date"`
	MealOpted    string             `json:"meal_opted" binding:"required"`
	Passengers   []passengerRequest `json:"passengers" binding:"required,dive"`
}

type passengerResponse struct {
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	SeatNumber string `json:"seat_number"`
}

type bookingResponse struct {
	PNR           string              `json:"pnr"`
	UserName      string              `json:"user_name"`
	UserEmail     string              `json:"user_email"`
	MobileNumber  string              `json:"mobile_number"`
	BookingDate   string              `json:"booking_date"`
	JourneyDate   string              `json:"journey_date"`
	FlightID      int64               `json:"flight_id"`
	MealOpted     string              `json:"meal_opted"`
	NumberOfSeats int                 `json:"number_of_seats"`
	TotalCents    int64               `json:"total_cents"`
	Passengers    []passengerResponse `json:"passengers"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/ticket/:flightId", h.bookTicket)
	router.GET("/ticket/:pnr", h.getTicketByPNR)
	router.DELETE("/ticket/:pnr", h.cancelTicket)
	router.GET("/history/:email", h.getBookingHistory)
}

func (h *BookingHandler) bookTicket(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flight id must be numeric"})
		return
	}

	var req bookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.BookTicketInput{
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		MobileNumber: req.MobileNumber,
		MealOpted:    req.MealOpted,
	}
	if req.JourneyDate != "" {
		journeyDate, err := time.Parse("2006-01-02", req.JourneyDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "journey_date must be YYYY-MM-DD"})
			return
		}
		input.JourneyDate = journeyDate
	}
	for _, p := range req.Passengers {
		input.Passengers = append(input.Passengers, booking.PassengerInput{
			Name:       p.Name,
			Gender:     p.Gender,
			Age:        p.Age,
			SeatNumber: p.SeatNumber,
		})
	}

	pnr, err := h.service.BookTicket(c.Request.Context(), flightID, input)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pnr": pnr})
}

func (h *BookingHandler) getTicketByPNR(c *gin.Context) {
	ticket, err := h.service.GetTicketByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(ticket))
}

func (h *BookingHandler) cancelTicket(c *gin.Context) {
	pnr := c.Param("pnr")
	if err := h.service.CancelTicket(c.Request.Context(), pnr); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking " + pnr + " cancelled"})
}

func (h *BookingHandler) getBookingHistory(c *gin.Context) {
	history, err := h.service.GetBookingHistory(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	responses := make([]bookingResponse, 0, len(history))
	for i := range history {
		responses = append(responses, toBookingResponse(&history[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrFlightUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCancellationNotPossible):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInventoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	passengers := make([]passengerResponse, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		passengers = append(passengers, passengerResponse{
			Name:       p.Name,
			Gender:     p.Gender,
			Age:        p.Age,
			SeatNumber: p.SeatNumber,
		})
	}
	return bookingResponse{
		PNR:           b.PNR,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		MobileNumber:  b.MobileNumber,
		BookingDate:   b.BookingDate.Format(time.RFC3339),
		JourneyDate:   b.JourneyDate.Format("2006-01-02"),
		FlightID:      b.FlightID,
		MealOpted:     b.MealOpted,
		NumberOfSeats: b.NumberOfSeats,
		TotalCents:    b.TotalCents,
		Passengers:    passengers,
	}
}
