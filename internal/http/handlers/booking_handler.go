package handlers

import (
	"net/http"

	"tiketbus/internal/domain/models"
	"tiketbus/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/pemesanan
func (h Handler) ListBookings(c *gin.Context) {
	params := services.BookingListParams{
		Code:          c.Query("kode_booking"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("status_pembayaran"),
		User:          c.Query("user"),
		Jadwal:        c.Query("jadwal"),
		From:          c.Query("tanggal_pesan_from"),
		To:            c.Query("tanggal_pesan_to"),
		Sort:          c.Query("sort"),
		Limit:         c.Query("limit"),
		Page:          c.Query("page"),
		Join:          queryBool(c, "join") || queryBool(c, "aggregate"),
		Meta:          queryBool(c, "meta"),
	}
	out, err := h.Queries.List(c.Request.Context(), params)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out.Meta != nil {
		c.JSON(http.StatusOK, gin.H{"data": out.Data(), "meta": out.Meta})
		return
	}
	c.JSON(http.StatusOK, out.Data())
}

// GET /api/pemesanan/stats
func (h Handler) BookingStats(c *gin.Context) {
	st, err := h.Queries.Stats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/pemesanan/:id
func (h Handler) GetBooking(c *gin.Context) {
	b, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/pemesanan
func (h Handler) CreateBooking(c *gin.Context) {
	var p bookingPayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.Bookings.Create(c.Request.Context(), p.toInput())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PATCH /api/pemesanan/:id
func (h Handler) UpdateBooking(c *gin.Context) {
	var p bookingPatchPayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	b, err := h.Bookings.Update(c.Request.Context(), c.Param("id"), p.toPatch())
	respondBooking(c, b, err)
}

// PATCH /api/pemesanan/:id/status
func (h Handler) UpdateBookingStatus(c *gin.Context) {
	var p statusPayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	b, err := h.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"),
		services.StatusChange{Status: p.Status, PaymentStatus: p.StatusPembayaran})
	respondBooking(c, b, err)
}

// PATCH /api/pemesanan/:id/confirm
func (h Handler) ConfirmBooking(c *gin.Context) {
	b, err := h.Bookings.Confirm(c.Request.Context(), c.Param("id"))
	respondBooking(c, b, err)
}

// PATCH /api/pemesanan/:id/cancel
func (h Handler) CancelBooking(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"))
	respondBooking(c, b, err)
}

// PATCH /api/pemesanan/:id/complete
func (h Handler) CompleteBooking(c *gin.Context) {
	b, err := h.Bookings.Complete(c.Request.Context(), c.Param("id"))
	respondBooking(c, b, err)
}

// DELETE /api/pemesanan/:id
func (h Handler) DeleteBooking(c *gin.Context) {
	if err := h.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	noContent(c)
}

func respondBooking(c *gin.Context, b models.Booking, err error) {
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
