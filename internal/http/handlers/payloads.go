package handlers

import (
	"strings"

	"tiketbus/internal/domain"
	"tiketbus/internal/services"
	"tiketbus/internal/utils"
)

// schedulePayload accepts canonical and legacy jadwal fields.
type schedulePayload struct {
	Code            *Stringish `json:"code"`
	LegacyID        *Stringish `json:"id"`
	Origin          *string    `json:"origin"`
	RuteAwal        *string    `json:"rute_awal"`
	Destination     *string    `json:"destination"`
	RuteTujuan      *string    `json:"rute_tujuan"`
	DeparturePool   *string    `json:"departurePool"`
	PoolBerangkat   *string    `json:"pool_keberangkatan"`
	ArrivalPool     *string    `json:"arrivalPool"`
	PoolTujuan      *string    `json:"pool_tujuan"`
	Date            *string    `json:"date" binding:"omitempty,ymd"`
	Time            *string    `json:"time" binding:"omitempty,hhmm"`
	JamBerangkat    *string    `json:"jam_berangkat"`
	ArrivalEstimate *string    `json:"arrivalEstimate"`
	EstimasiTiba    *string    `json:"estimasi_jam_tiba"`
	Price           *Amount    `json:"price"`
	Harga           *Amount    `json:"harga"`
	TotalSeats      *Count     `json:"totalSeats"`
	Seats           *Count     `json:"seats"`
	TotalKursi      *Count     `json:"total_kursi"`
	Status          *string    `json:"status" binding:"omitempty,oneof=active completed cancelled"`
}

// toInput maps the payload onto the canonical schedule input.
// jam_berangkat is a datetime and fills date and time when those are absent.
func (p schedulePayload) toInput() (services.ScheduleInput, error) {
	in := services.ScheduleInput{
		Code:            firstStringish(p.Code, p.LegacyID),
		Origin:          firstPtr(p.Origin, p.RuteAwal),
		Destination:     firstPtr(p.Destination, p.RuteTujuan),
		DeparturePool:   firstPtr(p.DeparturePool, p.PoolBerangkat),
		ArrivalPool:     firstPtr(p.ArrivalPool, p.PoolTujuan),
		Date:            p.Date,
		Time:            p.Time,
		ArrivalEstimate: firstPtr(p.ArrivalEstimate, p.EstimasiTiba),
		Status:          p.Status,
	}
	if p.JamBerangkat != nil && strings.TrimSpace(*p.JamBerangkat) != "" && (in.Date == nil || in.Time == nil) {
		raw := strings.TrimSpace(*p.JamBerangkat)
		if utils.IsClock(raw) {
			if in.Time == nil {
				in.Time = &raw
			}
		} else {
			t, err := utils.ParseFlexibleTime(raw)
			if err != nil {
				return in, domain.ValidationError{Field: "jam_berangkat", Msg: "format jam berangkat tidak valid"}
			}
			d, clock := t.Format(utils.LayoutDate), t.Format(utils.LayoutClock)
			if in.Date == nil {
				in.Date = &d
			}
			if in.Time == nil {
				in.Time = &clock
			}
		}
	}
	for _, a := range []*Amount{p.Price, p.Harga} {
		if a != nil {
			v := int64(*a)
			in.Price = &v
			break
		}
	}
	for _, n := range []*Count{p.TotalSeats, p.TotalKursi, p.Seats} {
		if n != nil {
			v := int(*n)
			in.TotalSeats = &v
			break
		}
	}
	return in, nil
}

// bookingPayload accepts canonical and legacy pemesanan fields.
type bookingPayload struct {
	UserID          *string    `json:"userId"`
	User            *string    `json:"user"`
	ScheduleID      *string    `json:"scheduleId"`
	Jadwal          *string    `json:"jadwal"`
	PassengerCount  *Count     `json:"passengerCount"`
	Seats           *Count     `json:"seats"`
	JumlahPenumpang *Count     `json:"jumlah_penumpang"`
	SeatNumbers     []string   `json:"seatNumbers" binding:"omitempty,dive,seatno"`
	NomorKursi      []string   `json:"nomor_kursi" binding:"omitempty,dive,seatno"`
	TotalPrice      *Amount    `json:"totalPrice"`
	TotalHarga      *Amount    `json:"total_harga"`
	Code            *Stringish `json:"code"`
	KodeBooking     *Stringish `json:"kode_booking"`
	LegacyID        *Stringish `json:"id"`
}

func (p bookingPayload) toInput() services.CreateBookingInput {
	in := services.CreateBookingInput{
		SeatNumbers: p.seatNumbers(),
	}
	if v := firstPtr(p.UserID, p.User); v != nil {
		in.UserID = strings.TrimSpace(*v)
	}
	if v := firstPtr(p.ScheduleID, p.Jadwal); v != nil {
		in.ScheduleID = strings.TrimSpace(*v)
	}
	if v := firstStringish(p.Code, p.KodeBooking, p.LegacyID); v != nil {
		in.Code = *v
	}
	in.PassengerCount = p.passengerCount()
	for _, a := range []*Amount{p.TotalPrice, p.TotalHarga} {
		if a != nil {
			v := int64(*a)
			in.TotalPrice = &v
			break
		}
	}
	return in
}

func (p bookingPayload) seatNumbers() []string {
	if p.SeatNumbers != nil {
		return p.SeatNumbers
	}
	return p.NomorKursi
}

func (p bookingPayload) passengerCount() *int {
	for _, n := range []*Count{p.PassengerCount, p.JumlahPenumpang, p.Seats} {
		if n != nil {
			v := int(*n)
			return &v
		}
	}
	return nil
}

// bookingPatchPayload is the generic PATCH body.
type bookingPatchPayload struct {
	Code             *Stringish `json:"code"`
	KodeBooking      *Stringish `json:"kode_booking"`
	Status           *string    `json:"status"`
	StatusPembayaran *string    `json:"status_pembayaran"`
	SeatNumbers      []string   `json:"seatNumbers" binding:"omitempty,dive,seatno"`
	NomorKursi       []string   `json:"nomor_kursi" binding:"omitempty,dive,seatno"`
	PassengerCount   *Count     `json:"passengerCount"`
	JumlahPenumpang  *Count     `json:"jumlah_penumpang"`
}

func (p bookingPatchPayload) toPatch() services.BookingPatch {
	out := services.BookingPatch{
		Code:          firstStringish(p.Code, p.KodeBooking),
		Status:        p.Status,
		PaymentStatus: p.StatusPembayaran,
	}
	if p.SeatNumbers != nil {
		out.SeatNumbers = p.SeatNumbers
	} else if p.NomorKursi != nil {
		out.SeatNumbers = p.NomorKursi
	}
	for _, n := range []*Count{p.PassengerCount, p.JumlahPenumpang} {
		if n != nil {
			v := int(*n)
			out.PassengerCount = &v
			break
		}
	}
	return out
}

type statusPayload struct {
	Status           *string `json:"status"`
	StatusPembayaran *string `json:"status_pembayaran"`
}

// userPayload accepts canonical and legacy user fields.
type userPayload struct {
	Name        *string `json:"name"`
	Nama        *string `json:"nama"`
	NamaLengkap *string `json:"namaLengkap"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Phone       *string `json:"phone"`
	NoHP        *string `json:"no_hp"`
	NoHp        *string `json:"noHp"`
	Role        *string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (p userPayload) toInput() services.UserInput {
	return services.UserInput{
		Name:     firstPtr(p.Name, p.NamaLengkap, p.Nama),
		Email:    p.Email,
		Password: p.Password,
		Phone:    firstPtr(p.Phone, p.NoHp, p.NoHP),
		Role:     p.Role,
	}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
