package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"disease-predictor/internal/symptom"
	"disease-predictor/internal/workflow"
)

// Disclaimer is printed under every prediction.
const Disclaimer = "This is a demo model and not a medical diagnosis."

var (
	// ErrNotConfigured is returned by Send when no doctor chat is set up.
	ErrNotConfigured = errors.New("report: doctor chat not configured")
	// ErrNoFont is returned by BuildPDF when none of the font paths load.
	ErrNoFont = errors.New("report: no usable font")
)

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

// Report is a successful prediction together with what was selected.
type Report struct {
	SessionID uuid.UUID
	Symptoms  []symptom.Entry
	Result    workflow.Result
	CreatedAt time.Time
}

type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	fontPaths    []string
	logger       zerolog.Logger
}

func NewService(tg TelegramClient, doctorChatID int64, fontPaths []string, logger zerolog.Logger) *Service {
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		fontPaths:    fontPaths,
		logger:       logger,
	}
}

// CanSend reports whether Send has somewhere to deliver to.
func (s *Service) CanSend() bool {
	return s.tgClient != nil && s.doctorChatID != 0
}

// FileName returns the file name used for exports of r.
func FileName(r Report, ext string) string {
	return fmt.Sprintf("report_%s.%s", r.SessionID.String(), strings.TrimPrefix(ext, "."))
}

// Summary renders r as plain text.
func Summary(r Report) string {
	var b strings.Builder
	b.WriteString("Disease prediction report\n")
	fmt.Fprintf(&b, "Date: %s\n", reportTime(r).Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Session: %s\n\n", r.SessionID)

	b.WriteString("Symptoms:\n")
	for _, e := range r.Symptoms {
		fmt.Fprintf(&b, "- %s\n", e.Label)
	}

	fmt.Fprintf(&b, "\nPredicted disease: %s\n", r.Result.Disease)
	fmt.Fprintf(&b, "Description: %s\n", r.Result.Description)
	if len(r.Result.Precautions) > 0 {
		b.WriteString("Precautions:\n")
		for _, p := range r.Result.Precautions {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	b.WriteString("\n" + Disclaimer + "\n")
	return b.String()
}

// BuildPDF lays the report out on A4 pages using the first font that loads.
func (s *Service) BuildPDF(r Report) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		if fontErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoFont, fontErr)
		}
		return nil, ErrNoFont
	}

	w := &pdfWriter{pdf: &pdf}
	w.heading(20, "Disease Prediction Report")
	w.gap(15)

	w.line(12, fmt.Sprintf("Date: %s", reportTime(r).Format("02.01.2006 15:04")))
	w.line(12, fmt.Sprintf("Session: %s", r.SessionID))
	w.gap(10)

	w.heading(14, "Selected symptoms:")
	for _, e := range r.Symptoms {
		w.paragraph(11, "- "+e.Label)
	}
	w.gap(10)

	w.heading(14, "Predicted disease:")
	w.paragraph(12, r.Result.Disease)
	w.gap(5)
	w.heading(14, "Description:")
	w.paragraph(11, r.Result.Description)

	if len(r.Result.Precautions) > 0 {
		w.gap(5)
		w.heading(14, "Precautions:")
		for _, p := range r.Result.Precautions {
			w.paragraph(11, "- "+p)
		}
	}

	w.gap(15)
	w.paragraph(9, Disclaimer)

	if w.err != nil {
		return nil, fmt.Errorf("failed to lay out PDF: %w", w.err)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Send delivers the PDF to the doctor chat, falling back to the text
// summary when the PDF cannot be built.
func (s *Service) Send(ctx context.Context, r Report) error {
	if !s.CanSend() {
		return ErrNotConfigured
	}

	data, err := s.BuildPDF(r)
	if err != nil {
		s.logger.Warn().Err(err).Msg("PDF unavailable, sending text summary")
		if err := s.tgClient.SendMessage(ctx, s.doctorChatID, Summary(r)); err != nil {
			return fmt.Errorf("send summary: %w", err)
		}
		return nil
	}

	if err := s.tgClient.SendDocument(ctx, s.doctorChatID, data, FileName(r, "pdf")); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	s.logger.Info().Str("session_id", r.SessionID.String()).Msg("report sent to doctor chat")
	return nil
}

func reportTime(r Report) time.Time {
	if r.CreatedAt.IsZero() {
		return time.Now()
	}
	return r.CreatedAt
}

const (
	pageBottom = 780
	textWidth  = 500
)

// pdfWriter keeps the first layout error and starts new pages as needed.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *pdfWriter) heading(size int, text string) {
	w.line(size, text)
}

func (w *pdfWriter) line(size int, text string) {
	if w.err != nil {
		return
	}
	if w.err = w.pdf.SetFont("DejaVu", "", size); w.err != nil {
		return
	}
	w.breakPage()
	if w.err = w.pdf.Cell(nil, text); w.err != nil {
		return
	}
	w.pdf.Br(float64(size) + 4)
}

func (w *pdfWriter) paragraph(size int, text string) {
	if w.err != nil {
		return
	}
	if w.err = w.pdf.SetFont("DejaVu", "", size); w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		lines = []string{text}
	}
	for _, l := range lines {
		w.breakPage()
		if w.err = w.pdf.Cell(nil, l); w.err != nil {
			return
		}
		w.pdf.Br(float64(size) + 2)
	}
}

func (w *pdfWriter) gap(h float64) {
	if w.err == nil {
		w.pdf.Br(h)
	}
}

func (w *pdfWriter) breakPage() {
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
	}
}
