package export

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/labstack/gommon/bytes"

	"github.com/yurifrl/budgetu/pkg/models"
)

// Downloader offers a payload to the user as a file named payload.Filename
// holding exactly payload.Bytes.
type Downloader interface {
	Offer(p Payload) error
}

// Exporter encodes budgets and hands the result to a Downloader.
type Exporter struct {
	logger     *log.Logger
	downloader Downloader
	opts       Options
}

// New creates an Exporter delivering through downloader.
func New(logger *log.Logger, downloader Downloader, opts Options) *Exporter {
	return &Exporter{
		logger:     logger,
		downloader: downloader,
		opts:       opts,
	}
}

// Export encodes data and delivers it. Encoding failures come back as
// *SerializationError and delivery failures as *DeliveryError.
func (e *Exporter) Export(format Format, data models.BudgetData) error {
	payload, err := Export(format, data, e.opts)
	if err != nil {
		return err
	}

	if err := e.downloader.Offer(payload); err != nil {
		var de *DeliveryError
		if errors.As(err, &de) {
			return err
		}
		return &DeliveryError{Filename: payload.Filename, Err: err}
	}

	e.logger.Info("exported budget",
		"format", format,
		"file", payload.Filename,
		"records", len(data.Incomes)+len(data.Expenses),
		"size", bytes.Format(int64(len(payload.Bytes))))
	return nil
}

// ExportAll exports data in every supported format, stopping at the first failure.
func (e *Exporter) ExportAll(data models.BudgetData) error {
	for _, f := range Formats {
		if err := e.Export(f, data); err != nil {
			return err
		}
	}
	return nil
}
