package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) BookTicket(ctx context.Context, flightID int64, input booking.BookTicketInput) (string, error) {
	args := m.Called(ctx, flightID, input)
	return args.String(0), args.Error(1)
}

func (m *MockBookingUseCase) CancelTicket(ctx context.Context, pnr string) error {
	args := m.Called(ctx, pnr)
	return args.Error(0)
}

func (m *MockBookingUseCase) GetTicketByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingHistory(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newTestRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service).Register(router.Group("/api/v1.0/booking"))
	return router
}

func bookRequestBody() []byte {
	body, _ := json.Marshal(bookTicketRequest{
		UserName:     "John Doe",
		UserEmail:    "test@example.com",
		MobileNumber: "9876543210",
		JourneyDate:  "2026-09-10",
		MealOpted:    "Veg",
		Passengers: []passengerRequest{
			{Name: "John Doe", Gender: "Male", Age: 30, SeatNumber: "12A"},
			{Name: "Jane Doe", Gender: "Female", Age: 28, SeatNumber: "12B"},
		},
	})
	return body
}

func TestBookingHandler_bookTicket(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("BookTicket", mock.Anything, int64(101), mock.AnythingOfType("booking.BookTicketInput")).
		Return("CHUBBFLIGHTAB12CD", nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1.0/booking/ticket/101", bytes.NewReader(bookRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "CHUBBFLIGHTAB12CD", response["pnr"])

	mockService.AssertExpectations(t)
}

func TestBookingHandler_bookTicket_FlightUnavailable(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("BookTicket", mock.Anything, int64(101), mock.Anything).
		Return("", domain.ErrFlightUnavailable).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1.0/booking/ticket/101", bytes.NewReader(bookRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_bookTicket_InventoryDown(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("BookTicket", mock.Anything, int64(101), mock.Anything).
		Return("", domain.ErrInventoryUnavailable).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1.0/booking/ticket/101", bytes.NewReader(bookRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBookingHandler_bookTicket_BadFlightID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1.0/booking/ticket/abc", bytes.NewReader(bookRequestBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BookTicket")
}

func TestBookingHandler_getTicketByPNR(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	ticket := &domain.Booking{
		PNR:           "CHUBBFLIGHTAB12CD",
		UserName:      "John Doe",
		UserEmail:     "test@example.com",
		BookingDate:   time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC),
		JourneyDate:   time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		FlightID:      101,
		NumberOfSeats: 2,
		TotalCents:    10000,
		Passengers: []domain.Passenger{
			{Name: "John Doe", Gender: "Male", Age: 30, SeatNumber: "12A"},
		},
	}
	mockService.On("GetTicketByPNR", mock.Anything, ticket.PNR).Return(ticket, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1.0/booking/ticket/"+ticket.PNR, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, ticket.PNR, response.PNR)
	assert.Equal(t, "2026-09-10", response.JourneyDate)
	assert.Equal(t, int64(10000), response.TotalCents)
	assert.Len(t, response.Passengers, 1)
}

func TestBookingHandler_getTicketByPNR_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetTicketByPNR", mock.Anything, "MISSING").Return(nil, domain.ErrBookingNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1.0/booking/ticket/MISSING", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_cancelTicket(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("CancelTicket", mock.Anything, "CHUBBFLIGHTAB12CD").Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1.0/booking/ticket/CHUBBFLIGHTAB12CD", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancelTicket_PastDeadline(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("CancelTicket", mock.Anything, "CHUBBFLIGHTAB12CD").
		Return(domain.ErrCancellationNotPossible).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1.0/booking/ticket/CHUBBFLIGHTAB12CD", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_getBookingHistory(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	history := []domain.Booking{
		{PNR: "CHUBBFLIGHTAB12CD", UserEmail: "test@example.com", BookingDate: time.Now()},
		{PNR: "CHUBBFLIGHT00OLD1", UserEmail: "test@example.com", BookingDate: time.Now().Add(-24 * time.Hour)},
	}
	mockService.On("GetBookingHistory", mock.Anything, "test@example.com").Return(history, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1.0/booking/history/test@example.com", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "CHUBBFLIGHTAB12CD", response[0].PNR)
}

func TestBookingHandler_getBookingHistory_Empty(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetBookingHistory", mock.Anything, "nobody@example.com").
		Return(nil, domain.ErrBookingNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1.0/booking/history/nobody@example.com", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
