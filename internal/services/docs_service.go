package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
	"tiketbus/internal/repositories"
	"tiketbus/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket PDF of a booking.
type DocsService struct {
	Bookings repositories.BookingRepository
	Loader   func(ctx context.Context, ref string) (models.Booking, error)
}

// ETicket is only issued for confirmed or completed bookings.
func (s DocsService) ETicket(ctx context.Context, ref string) ([]byte, string, error) {
	b, err := s.load(ctx, ref)
	if err != nil {
		return nil, "", internal(err)
	}
	st := domain.BookingStatus(b.Status)
	if st != domain.StatusConfirmed && st != domain.StatusCompleted {
		return nil, "", domain.ForbiddenError{Msg: "e-ticket hanya tersedia untuk pemesanan yang sudah dikonfirmasi"}
	}
	pdf, name, err := buildETicketPDF(b)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "gagal membuat e-ticket", Err: err}
	}
	utils.LogEvent(requestID(ctx), "docs", "generate_eticket", "booking_id="+b.ID)
	return pdf, name, nil
}

func (s DocsService) load(ctx context.Context, ref string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ref)
	}
	return getBooking(ctx, s.Bookings, ref)
}

func ticketCode(b models.Booking) string {
	if b.Code != "" {
		return b.Code
	}
	return strings.ToUpper(b.ID)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	sched := b.Snapshot.Schedule
	user := b.Snapshot.User

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Kode Booking   : %s", ticketCode(b)),
		fmt.Sprintf("Nama Pemesan   : %s", safe(user.Name, "-")),
		fmt.Sprintf("No HP          : %s", safe(user.Phone, "-")),
		fmt.Sprintf("Rute           : %s -> %s", safe(sched.Origin, "-"), safe(sched.Destination, "-")),
		fmt.Sprintf("Tanggal/Jam    : %s %s", safe(sched.Date, "-"), safe(sched.Time, "-")),
		fmt.Sprintf("Jumlah Kursi   : %d", b.PassengerCount),
		fmt.Sprintf("Nomor Kursi    : %s", safe(strings.Join(b.SeatNumbers, ", "), "-")),
		fmt.Sprintf("Total Harga    : %s", utils.FormatRupiah(b.TotalPrice)),
		fmt.Sprintf("Status         : %s", b.Status),
	}
	if sched.Code != "" {
		lines = append(lines, fmt.Sprintf("Kode Jadwal    : %s", sched.Code))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Catatan: E-ticket ini berlaku untuk %d penumpang. Harap tunjukkan saat keberangkatan.", b.PassengerCount), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(ticketCode(b)), safeFilenamePart(user.Name))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
