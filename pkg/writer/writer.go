// Package writer creates one ledger transaction per product cost record.
package writer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/extractor"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
)

// TransactionCreator is the accounting write surface the writer needs.
type TransactionCreator interface {
	CreateMoneyTransaction(ctx context.Context, input wave.MoneyTransactionCreateInput) (wave.TransactionResult, error)
}

// Recorder stores the outcome of each write attempt.
type Recorder interface {
	RecordWrite(record db.WriteRecord) error
}

// WriteError reports a transaction that was not created.
// InputErrors is set when the API rejected the input; Err when the call failed.
type WriteError struct {
	Handle      string
	InputErrors []wave.InputError
	Err         error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to write transaction for %q: %v", e.Handle, e.Err)
	}
	msgs := make([]string, 0, len(e.InputErrors))
	for _, ie := range e.InputErrors {
		msgs = append(msgs, ie.String())
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "didSucceed=false")
	}
	return fmt.Sprintf("transaction for %q rejected: %s", e.Handle, strings.Join(msgs, "; "))
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Report summarises a WriteAll run.
type Report struct {
	Attempted int
	Succeeded int
	Failed    int
	// FailedHandles lists the products whose transaction was not created.
	FailedHandles []string
}

// Writer submits transactions against a fixed set of resolved accounts.
type Writer struct {
	creator  TransactionCreator
	accounts Accounts
	policy   AmountPolicy
	shopName string
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithAmountPolicy sets the posted amount policy. Default: AmountZero.
func WithAmountPolicy(policy AmountPolicy) Option {
	return func(w *Writer) {
		w.policy = policy
	}
}

// WithExternalIDs attaches a stable externalId derived from shopName and the
// product handle to every transaction.
func WithExternalIDs(shopName string) Option {
	return func(w *Writer) {
		w.shopName = shopName
	}
}

// WithRecorder records every attempt. Recording failures are logged only.
func WithRecorder(recorder Recorder) Option {
	return func(w *Writer) {
		w.recorder = recorder
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// New creates a Writer.
func New(creator TransactionCreator, accounts Accounts, opts ...Option) *Writer {
	w := &Writer{
		creator:  creator,
		accounts: accounts,
		policy:   AmountZero,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Input builds the input that WriteTransaction would submit for record.
func (w *Writer) Input(record extractor.ProductCostRecord) wave.MoneyTransactionCreateInput {
	var externalID string
	if w.shopName != "" {
		externalID = ExternalID(w.shopName, record.Handle)
	}
	return BuildInput(w.accounts, record, w.policy, externalID)
}

// Plan builds the inputs for every record without submitting anything.
func (w *Writer) Plan(records []extractor.ProductCostRecord) []wave.MoneyTransactionCreateInput {
	inputs := make([]wave.MoneyTransactionCreateInput, 0, len(records))
	for _, r := range records {
		inputs = append(inputs, w.Input(r))
	}
	return inputs
}

// WriteTransaction submits one transaction. A non-nil error is a *WriteError.
func (w *Writer) WriteTransaction(ctx context.Context, record extractor.ProductCostRecord) (wave.TransactionResult, error) {
	input := w.Input(record)

	result, err := w.creator.CreateMoneyTransaction(ctx, input)
	var writeErr *WriteError
	switch {
	case err != nil:
		writeErr = &WriteError{Handle: record.Handle, Err: err}
	case !result.DidSucceed:
		writeErr = &WriteError{Handle: record.Handle, InputErrors: result.InputErrors}
	}

	w.record(record, input, result, writeErr)

	if writeErr != nil {
		return result, writeErr
	}
	return result, nil
}

// WriteAll writes one transaction per record, in order. Failures are logged
// and counted; they never stop the loop and nothing is rolled back.
// Cancelling ctx stops the loop before the next record; records not yet
// attempted are neither written nor counted.
func (w *Writer) WriteAll(ctx context.Context, records []extractor.ProductCostRecord) Report {
	var report Report
	for _, record := range records {
		if ctx.Err() != nil {
			w.logger.Warn("Write loop interrupted", "remaining", len(records)-report.Attempted)
			break
		}
		report.Attempted++

		result, err := w.WriteTransaction(ctx, record)
		if err != nil {
			report.Failed++
			report.FailedHandles = append(report.FailedHandles, record.Handle)
			w.logger.Error("Failed to create transaction", "product", record.Handle, "error", err)
			continue
		}

		report.Succeeded++
		w.logger.Info("Created transaction", "product", record.Handle, "transaction_id", result.TransactionID)
	}
	return report
}

func (w *Writer) record(record extractor.ProductCostRecord, input wave.MoneyTransactionCreateInput, result wave.TransactionResult, writeErr *WriteError) {
	if w.recorder == nil {
		return
	}

	entry := db.WriteRecord{
		ProductHandle: record.Handle,
		ExternalID:    input.ExternalID,
		TransactionID: result.TransactionID,
		Succeeded:     writeErr == nil,
		Amount:        input.LineItems[0].Amount.String(),
	}
	if writeErr != nil {
		entry.Message = writeErr.Error()
	}

	if err := w.recorder.RecordWrite(entry); err != nil {
		w.logger.Warn("Failed to record write", "product", record.Handle, "error", err)
	}
}
