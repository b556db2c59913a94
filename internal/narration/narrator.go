// Package narration produces the flavour text shown when the player looks
// at a room. It wraps a language model with a cache, a timeout and a fixed
// fallback so that a missing or failing model never blocks play.
package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ai-dungeon-master/internal/services"
	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/textfilter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// FallbackNarrative is shown whenever no description could be generated.
const FallbackNarrative = "The room is quiet and uneventful."

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 20 * time.Second

// ErrNarrativeUnavailable wraps every reason a description could not be
// produced.
var ErrNarrativeUnavailable = errors.New("narrative unavailable")

// Prompt is the request sent to the model for a room.
func Prompt(roomName string) string {
	return fmt.Sprintf("Generate a description for a D&D room called %s. It could be a normal room or a boss room.", roomName)
}

// CacheKey is where the description of a room in a given game is cached.
func CacheKey(gameID uuid.UUID, roomID int) string {
	return fmt.Sprintf("narrative:%s:%d", gameID, roomID)
}

// Narrator renders room descriptions.
type Narrator struct {
	llm     services.LLMService
	cache   services.Cache
	logger  *slog.Logger
	timeout time.Duration
	filter  *textfilter.ProfanityFilter
	tracer  trace.Tracer
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithCache stores successful descriptions. A nil cache disables caching.
func WithCache(c services.Cache) Option {
	return func(n *Narrator) { n.cache = c }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(n *Narrator) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithContentRating enables the profanity filter for family ratings.
func WithContentRating(rating string) Option {
	return func(n *Narrator) {
		if textfilter.ShouldFilterContent(rating) {
			n.filter = textfilter.NewProfanityFilter()
		} else {
			n.filter = nil
		}
	}
}

// WithTracer records a span per generated description.
func WithTracer(t trace.Tracer) Option {
	return func(n *Narrator) {
		if t != nil {
			n.tracer = t
		}
	}
}

// New creates a Narrator over llm.
func New(llm services.LLMService, logger *slog.Logger, opts ...Option) *Narrator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Narrator{
		llm:     llm,
		logger:  logger,
		timeout: DefaultTimeout,
		tracer:  noop.NewTracerProvider().Tracer("narration"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Narrate returns a description of room, or FallbackNarrative if none could
// be produced. Failures are logged, never returned.
func (n *Narrator) Narrate(ctx context.Context, gameID uuid.UUID, room *dungeon.Room) string {
	text, err := n.Generate(ctx, gameID, room)
	if err != nil {
		n.logger.Warn("Using fallback narrative", "error", err)
		return FallbackNarrative
	}
	return text
}

// Generate returns a description of room. Cached descriptions are served
// without calling the model; otherwise the model is called exactly once.
func (n *Narrator) Generate(ctx context.Context, gameID uuid.UUID, room *dungeon.Room) (string, error) {
	if room == nil {
		return "", fmt.Errorf("%w: no room", ErrNarrativeUnavailable)
	}
	ctx, span := n.tracer.Start(ctx, "narration.generate",
		trace.WithAttributes(
			attribute.Int("room.id", room.ID),
			attribute.String("room.name", room.Name),
		))
	defer span.End()

	key := CacheKey(gameID, room.ID)
	if cached := n.fromCache(ctx, key); cached != "" {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if n.llm == nil {
		err := fmt.Errorf("%w: no language model configured", ErrNarrativeUnavailable)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	resp, err := n.llm.GetChatResponse(callCtx, []chat.ChatMessage{chat.UserMessage(Prompt(room.Name))})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return "", fmt.Errorf("%w: %w", ErrNarrativeUnavailable, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrNarrativeUnavailable)
	}

	text := textfilter.Clean(resp.Message)
	if n.filter != nil {
		text = n.filter.FilterText(text)
	}
	if text == "" {
		span.SetStatus(codes.Error, "blank description")
		return "", fmt.Errorf("%w: blank description", ErrNarrativeUnavailable)
	}

	n.toCache(ctx, key, text)
	return text, nil
}

// Forget drops cached descriptions for the given rooms.
func (n *Narrator) Forget(ctx context.Context, gameID uuid.UUID, roomIDs ...int) {
	if n.cache == nil || len(roomIDs) == 0 {
		return
	}
	keys := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		keys[i] = CacheKey(gameID, id)
	}
	if err := n.cache.Del(ctx, keys...); err != nil {
		n.logger.Warn("Failed to clear narrative cache", "error", err)
	}
}

func (n *Narrator) fromCache(ctx context.Context, key string) string {
	if n.cache == nil {
		return ""
	}
	v, err := n.cache.Get(ctx, key)
	if err != nil {
		n.logger.Warn("Narrative cache read failed", "key", key, "error", err)
		return ""
	}
	return v
}

func (n *Narrator) toCache(ctx context.Context, key, text string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Set(ctx, key, text, services.NarrativeTTL); err != nil {
		n.logger.Warn("Narrative cache write failed", "key", key, "error", err)
	}
}
