package handlers

import (
	"net/http"

	"tiketbus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/jadwal
func (h Handler) ListSchedules(c *gin.Context) {
	f := models.ScheduleFilter{
		Code:          firstQuery(c, "code", "id"),
		Origin:        firstQuery(c, "origin", "rute_awal"),
		Destination:   firstQuery(c, "destination", "rute_tujuan"),
		Date:          firstQuery(c, "date", "tanggal"),
		Time:          firstQuery(c, "time", "jam_berangkat"),
		Status:        c.Query("status"),
		DeparturePool: firstQuery(c, "departurePool", "pool_keberangkatan"),
		ArrivalPool:   firstQuery(c, "arrivalPool", "pool_tujuan"),
	}
	out, err := h.Schedules.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/jadwal/:id
func (h Handler) GetSchedule(c *gin.Context) {
	sc, err := h.Schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

// GET /api/jadwal/:id/seats
func (h Handler) GetSeatMap(c *gin.Context) {
	m, err := h.Schedules.SeatMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/jadwal
func (h Handler) CreateSchedule(c *gin.Context) {
	var p schedulePayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	in, err := p.toInput()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sc, err := h.Schedules.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// PATCH /api/jadwal/:id
func (h Handler) UpdateSchedule(c *gin.Context) {
	var p schedulePayload
	if err := bindJSON(c, &p); err != nil {
		RespondDomainError(c, err)
		return
	}
	in, err := p.toInput()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sc, err := h.Schedules.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

// DELETE /api/jadwal/:id
func (h Handler) DeleteSchedule(c *gin.Context) {
	if err := h.Schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	noContent(c)
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok {
			return v
		}
	}
	return ""
}
