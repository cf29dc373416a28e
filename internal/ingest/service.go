package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"txnsense/internal/constants"
	"txnsense/internal/extraction"
	"txnsense/internal/logger"
	"txnsense/internal/oracle"
	"txnsense/internal/storage"
	"txnsense/internal/transfer"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/logging"
	"txnsense/pkg/metrics"
	"txnsense/pkg/models"
	"txnsense/pkg/tracing"
)

// Publisher announces stored transactions to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *models.TransactionEvent) error
}

// Service runs the ingestion pipeline for one message at a time. It holds no
// per-message state, so one instance serves concurrent requests.
type Service struct {
	extractor  *extraction.Extractor
	classifier *transfer.Classifier
	oracle     oracle.Oracle
	assembler  *Assembler
	store      storage.Store
	publisher  Publisher
	logger     logger.Logger
	now        func() time.Time
	newID      func() string
}

type ServiceOption func(*Service)

// WithPublisher enables event publication after each successful insert.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(
	extractor *extraction.Extractor,
	classifier *transfer.Classifier,
	o oracle.Oracle,
	assembler *Assembler,
	store storage.Store,
	log logger.Logger,
	opts ...ServiceOption,
) *Service {
	if o == nil {
		o = oracle.Disabled{}
	}
	s := &Service{
		extractor:  extractor,
		classifier: classifier,
		oracle:     o,
		assembler:  assembler,
		store:      store,
		logger:     log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest analyzes raw, stores the result and publishes an event. A storage failure is
// returned as apperrors.ErrPersistenceFailure; a publish failure is only logged.
func (s *Service) Ingest(ctx context.Context, raw string) (models.NormalizedTransaction, error) {
	start := time.Now()

	tx, err := s.analyze(ctx, raw)
	if err != nil {
		metrics.ObserveIngestDuration(time.Since(start), statusFor(err))
		return models.NormalizedTransaction{}, err
	}
	ctx = logging.WithMessageID(ctx, tx.ID)

	if err := s.store.Insert(ctx, tx); err != nil {
		metrics.IncTransactionStored("failed", tx.IncludeInInsights)
		metrics.ObserveIngestDuration(time.Since(start), "persistence_failure")
		s.logger.ErrorwCtx(ctx, "Failed to store transaction",
			"component", constants.ComponentStore,
			"error", err,
		)
		return models.NormalizedTransaction{}, apperrors.ErrPersistenceFailure.
			WithDetail("transaction_id", tx.ID).
			WithCause(err)
	}
	metrics.IncTransactionStored("stored", tx.IncludeInInsights)

	s.publish(ctx, tx)

	metrics.ObserveIngestDuration(time.Since(start), "stored")
	s.logger.InfowCtx(ctx, "Transaction ingested",
		"merchant", tx.Merchant,
		"category", tx.Category,
		"category_source", tx.CategorySource,
		"amount_base", tx.AmountBase.StringFixed(2),
		"original_currency", tx.OriginalCurrency,
		"include_in_insights", tx.IncludeInInsights,
	)
	return tx, nil
}

// Preview runs the same analysis as Ingest without storing or publishing.
func (s *Service) Preview(ctx context.Context, raw string) (models.NormalizedTransaction, error) {
	start := time.Now()
	tx, err := s.analyze(ctx, raw)
	if err != nil {
		metrics.ObserveIngestDuration(time.Since(start), statusFor(err))
		return models.NormalizedTransaction{}, err
	}
	metrics.ObserveIngestDuration(time.Since(start), "preview")
	return tx, nil
}

func (s *Service) analyze(ctx context.Context, raw string) (models.NormalizedTransaction, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.analyze")
	defer span.End()

	text := strings.TrimSpace(raw)
	if text == "" {
		return models.NormalizedTransaction{}, apperrors.ErrMalformedInput.WithMessage("message is required")
	}

	id := s.newID()
	ctx = logging.WithMessageID(ctx, id)

	local := s.extractor.Extract(text)
	transferByKeyword := s.classifier.LooksLikeTransfer(text)
	if transferByKeyword {
		local.IsTransfer = &transferByKeyword
	}

	s.logger.DebugwCtx(ctx, "Local extraction finished",
		"component", constants.ComponentExtractor,
		"matched_by", local.MatchedBy,
		"missing", local.Missing(),
		"transfer_keyword", transferByKeyword,
	)

	ai := s.consultOracle(ctx, text, local, transferByKeyword)

	tx, err := s.assembler.Assemble(ctx, Input{
		ID:         id,
		RawText:    text,
		ReceivedAt: s.now(),
		Local:      local,
		AI:         ai,
	})
	if err != nil {
		if apperrors.IsMalformedInput(err) {
			s.logger.InfowCtx(ctx, "Message rejected, no amount or merchant found",
				"component", constants.ComponentExtractor,
				"text", truncate(text, constants.DefaultTruncateLen),
			)
		}
		return models.NormalizedTransaction{}, err
	}
	return tx, nil
}

// consultOracle only calls out when local extraction left a gap and the keyword
// classifier has not already settled the message as a transfer.
func (s *Service) consultOracle(ctx context.Context, text string, local extraction.Fields, transferByKeyword bool) *oracle.Extraction {
	if local.Complete() || transferByKeyword {
		return nil
	}

	ai, err := s.oracle.Extract(ctx, text)
	if err != nil {
		metrics.IncFallback(constants.ComponentOracle, "local_only")
		s.logger.WarnwCtx(ctx, "Extraction oracle unavailable, using local fields only",
			"component", constants.ComponentOracle,
			"missing", local.Missing(),
			"error", err,
		)
		return nil
	}
	return ai
}

func (s *Service) publish(ctx context.Context, tx models.NormalizedTransaction) {
	if s.publisher == nil {
		return
	}

	builder := models.NewTransactionEventBuilder(tx).
		WithTimestamp(s.now()).
		WithRequestID(logging.GetRequestID(ctx))
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		builder.WithTraceID(sc.TraceID().String())
	}

	if err := s.publisher.Publish(ctx, builder.Build()); err != nil {
		metrics.IncFallback(constants.ComponentPublisher, "dropped_event")
		s.logger.WarnwCtx(ctx, "Failed to publish transaction event",
			"component", constants.ComponentPublisher,
			"error", err,
		)
	}
}

func statusFor(err error) string {
	switch {
	case apperrors.IsMalformedInput(err):
		return "malformed_input"
	case apperrors.IsPersistenceFailure(err):
		return "persistence_failure"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
