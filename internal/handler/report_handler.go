package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/smart-records-api/internal/report"
)

// ReportHandler отдаёт сводный отчёт в текстовом виде или PDF
type ReportHandler struct {
	responder
	generator *report.Generator
}

// NewReportHandler создаёт новый хендлер отчётов
func NewReportHandler(generator *report.Generator, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		responder: responder{logger: logger},
		generator: generator,
	}
}

// Summary выгружает отчёт; параметр format выбирает между text и pdf
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}

	switch format {
	case "text":
		text, err := h.generator.Text(r.Context())
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(h.generator.Filename("txt")))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(text)); err != nil {
			h.logger.Error("failed to write report", slog.Any("error", err))
		}

	case "pdf":
		data, err := h.generator.PDF(r.Context())
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment(h.generator.Filename("pdf")))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			h.logger.Error("failed to write report", slog.Any("error", err))
		}

	default:
		h.respondError(w, http.StatusBadRequest, "invalid report format, use 'text' or 'pdf'", "")
	}
}

func attachment(filename string) string {
	return fmt.Sprintf(`attachment; filename=%q`, filename)
}
