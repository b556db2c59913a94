// Package game runs a dungeon crawl: it owns the live dungeon, the player
// and any battle in progress, and turns console commands into text.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ai-dungeon-master/internal/logger"
	"github.com/jwebster45206/ai-dungeon-master/internal/narration"
	"github.com/jwebster45206/ai-dungeon-master/internal/storage"
	"github.com/jwebster45206/ai-dungeon-master/pkg/actor"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	// ErrNoGame means no game has been started or loaded.
	ErrNoGame = errors.New("no game in progress")
	// ErrGameOver is returned for play commands after the player has fallen.
	ErrGameOver = errors.New("the game is over; load a saved game or quit")
	// ErrInCombat blocks leaving or starting a fight mid-battle.
	ErrInCombat = errors.New("you are in a battle; attack, heal or flee")
	// ErrNotInCombat is returned by battle commands outside a battle.
	ErrNotInCombat = errors.New("you are not in a battle")
	// ErrNoEnemy means the current room holds nobody to fight.
	ErrNoEnemy = errors.New("there are no enemies in this room")
	// ErrUnknownCommand is returned by Execute for unparseable input.
	ErrUnknownCommand = errors.New("invalid action")
)

// Deps are the engine's collaborators. Only Storage is required.
type Deps struct {
	Storage  storage.Storage
	Narrator *narration.Narrator
	// Roller drives combat. Defaults to a time-seeded RandRoller.
	Roller actor.Roller
	// Rand drives dungeon generation. Defaults to the graph's own source.
	Rand     dungeon.Rand
	Bestiary *dungeon.Bestiary
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

// Engine is the game session. It is not safe for concurrent use; the
// console serialises calls.
type Engine struct {
	storage  storage.Storage
	narrator *narration.Narrator
	roller   actor.Roller
	rng      dungeon.Rand
	bestiary *dungeon.Bestiary
	base     *slog.Logger
	logger   *slog.Logger // base tagged with the current game id
	tracer   trace.Tracer

	gameID uuid.UUID
	player *actor.Player
	graph  *dungeon.Graph
	enemy  *actor.Monster
	over   bool
}

// NewEngine creates an engine with no game loaded.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	e := &Engine{
		storage:  deps.Storage,
		narrator: deps.Narrator,
		roller:   deps.Roller,
		rng:      deps.Rand,
		bestiary: deps.Bestiary,
		logger:   deps.Logger,
		tracer:   deps.Tracer,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.base = e.logger
	if e.tracer == nil {
		e.tracer = noop.NewTracerProvider().Tracer("game")
	}
	if e.roller == nil {
		e.roller = actor.NewRandRoller(uint64(time.Now().UnixNano()))
	}
	if e.narrator == nil {
		e.narrator = narration.New(nil, e.logger)
	}
	return e, nil
}

func (e *Engine) graphOptions() []dungeon.Option {
	var opts []dungeon.Option
	if e.rng != nil {
		opts = append(opts, dungeon.WithRand(e.rng))
	}
	if e.bestiary != nil {
		opts = append(opts, dungeon.WithBestiary(e.bestiary))
	}
	return opts
}

// NewGame discards any current game and starts a fresh dungeon. It returns
// the description of the start room.
func (e *Engine) NewGame(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Adventurer"
	}
	graph, start := dungeon.CreateInitialDungeon(e.graphOptions()...)
	player, err := actor.NewPlayer(name, start)
	if err != nil {
		return "", fmt.Errorf("failed to create player: %w", err)
	}

	e.replaceGame(ctx, uuid.New(), graph, player)
	e.logger.Info("New game started", "player", name)

	return fmt.Sprintf("Welcome, %s.\n%s", name, e.Describe(ctx)), nil
}

// replaceGame swaps in a new session. Cached narratives of the outgoing game
// are dropped unless the same game is coming back.
func (e *Engine) replaceGame(ctx context.Context, gameID uuid.UUID, graph *dungeon.Graph, player *actor.Player) {
	if e.graph != nil && e.gameID != gameID {
		e.narrator.Forget(ctx, e.gameID, e.graph.RoomIDs()...)
	}
	e.gameID = gameID
	e.graph = graph
	e.player = player
	e.enemy = nil
	e.over = false
	e.logger = logger.WithGame(e.base, gameID.String())
}

// Started reports whether a game is loaded.
func (e *Engine) Started() bool { return e.player != nil && e.graph != nil }

// Over reports whether the player has been defeated.
func (e *Engine) Over() bool { return e.over }

// InBattle reports whether a battle is in progress.
func (e *Engine) InBattle() bool { return e.enemy != nil }

// GameID identifies the running game.
func (e *Engine) GameID() uuid.UUID { return e.gameID }

// Player is the current player, nil before a game starts.
func (e *Engine) Player() *actor.Player { return e.player }

// Graph is the current dungeon, nil before a game starts.
func (e *Engine) Graph() *dungeon.Graph { return e.graph }

// Enemy is the opponent of the current battle, if any.
func (e *Engine) Enemy() *actor.Monster { return e.enemy }

func (e *Engine) currentRoom() *dungeon.Room {
	room, _ := e.graph.Room(e.player.RoomID())
	return room
}

func (e *Engine) checkPlayable() error {
	if !e.Started() {
		return ErrNoGame
	}
	if e.over {
		return ErrGameOver
	}
	return nil
}

// Describe renders the current room with its narrative.
func (e *Engine) Describe(ctx context.Context) string {
	if !e.Started() {
		return ""
	}
	room := e.currentRoom()
	if room == nil {
		return ""
	}
	return room.Describe(e.narrator.Narrate(ctx, e.gameID, room))
}

// Move walks the player one room in direction and describes the new room.
func (e *Engine) Move(ctx context.Context, direction string) (string, error) {
	if err := e.checkPlayable(); err != nil {
		return "", err
	}
	if e.enemy != nil {
		return "", ErrInCombat
	}

	ctx, span := e.tracer.Start(ctx, "game.move", trace.WithAttributes(
		attribute.String("direction", direction),
		attribute.Int("room.from", e.player.RoomID()),
	))
	defer span.End()

	before := e.graph.Len()
	to, err := e.player.Move(e.graph, direction)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, dungeon.ErrInvalidDirection) {
			return "", fmt.Errorf("you can't move in that direction: %w", err)
		}
		return "", err
	}
	span.SetAttributes(
		attribute.Int("room.to", to),
		attribute.Int("rooms.created", e.graph.Len()-before),
	)
	e.logger.Debug("Player moved", "direction", direction, "room_id", to, "rooms", e.graph.Len())
	return e.Describe(ctx), nil
}

// Look describes the current room again.
func (e *Engine) Look(ctx context.Context) (string, error) {
	if !e.Started() {
		return "", ErrNoGame
	}
	return e.Describe(ctx), nil
}

// Fight starts a battle with the room's live occupant.
func (e *Engine) Fight() (string, error) {
	if err := e.checkPlayable(); err != nil {
		return "", err
	}
	if e.enemy != nil {
		return "", ErrInCombat
	}
	enemy := actor.NewMonsterFromRoom(e.currentRoom(), e.graph.Bestiary())
	if enemy == nil {
		return "", ErrNoEnemy
	}
	e.enemy = enemy

	var sb strings.Builder
	fmt.Fprintf(&sb, "A wild %s appears! (Health: %d)\n", enemy.Name, enemy.HP)
	if enemy.Boss {
		sb.WriteString("It is the master of this place.\n")
	}
	sb.WriteString(e.battleStatus())
	return sb.String(), nil
}

func (e *Engine) battleStatus() string {
	return fmt.Sprintf("Your health: %d | Enemy health: %d\n", e.player.Health(), e.enemy.HP)
}

// Attack swings at the enemy. A surviving enemy strikes back.
func (e *Engine) Attack() (string, error) {
	if err := e.checkPlayable(); err != nil {
		return "", err
	}
	if e.enemy == nil {
		return "", ErrNotInCombat
	}

	var sb strings.Builder
	msg, hp := actor.Attack(e.roller, e.enemy.HP)
	e.enemy.HP = hp
	sb.WriteString(msg + "\n")

	if e.enemy.IsDefeated() {
		e.winBattle(&sb)
		return sb.String(), nil
	}
	e.counterAttack(&sb)
	return sb.String(), nil
}

func (e *Engine) winBattle(sb *strings.Builder) {
	enemy := e.enemy
	e.enemy = nil
	e.currentRoom().MarkOccupantDefeated()
	fmt.Fprintf(sb, "You defeated the %s!\n", enemy.Name)
	fmt.Fprintf(sb, "XP Gained: %d\n", enemy.XP)
	lvl, err := e.player.GainXP(enemy.XP)
	if err != nil {
		logger.WithError(e.logger, err).Error("Failed to award XP", "xp", enemy.XP)
	}
	if lvl != "" {
		sb.WriteString(lvl + "\n")
	}
	e.logger.Info("Enemy defeated", "enemy", enemy.Name, "room_id", e.player.RoomID())
}

func (e *Engine) counterAttack(sb *strings.Builder) {
	msg, _ := e.player.EnemyAttack(e.roller)
	sb.WriteString(msg + "\n")
	if e.player.IsDefeated() {
		e.over = true
		e.enemy = nil
		sb.WriteString("You have been defeated. Game over!\n")
		e.logger.Info("Player defeated", "room_id", e.player.RoomID())
		return
	}
	sb.WriteString(e.battleStatus())
}

// Heal drinks a potion. During a battle the enemy gets a free strike.
func (e *Engine) Heal() (string, error) {
	if err := e.checkPlayable(); err != nil {
		return "", err
	}
	var sb strings.Builder
	res := e.player.Heal()
	sb.WriteString(res.Message + "\n")
	if e.enemy != nil {
		e.counterAttack(&sb)
	}
	return sb.String(), nil
}

// Flee ends the battle. The occupant stays in the room, undefeated.
func (e *Engine) Flee() (string, error) {
	if err := e.checkPlayable(); err != nil {
		return "", err
	}
	if e.enemy == nil {
		return "", ErrNotInCombat
	}
	e.enemy = nil
	return actor.Flee(), nil
}

// Inventory lists health and items.
func (e *Engine) Inventory() (string, error) {
	if !e.Started() {
		return "", ErrNoGame
	}
	items := e.player.Inventory()
	list := "(empty)"
	if len(items) > 0 {
		list = strings.Join(items, ", ")
	}
	return fmt.Sprintf("Your health: %d/%d\nYour inventory: %s", e.player.Health(), e.player.MaxHealth(), list), nil
}

// Status summarises the player.
func (e *Engine) Status() (string, error) {
	if !e.Started() {
		return "", ErrNoGame
	}
	p := e.player
	room := e.currentRoom()
	return fmt.Sprintf("%s | Level %d | XP %d/%d | Health %d/%d | %s | Rooms discovered: %d",
		p.Name(), p.Level(), p.XP(), actor.LevelUpXP, p.Health(), p.MaxHealth(), room.Name, e.graph.Len()), nil
}

// Save writes the current game to storage.
func (e *Engine) Save(ctx context.Context) (string, error) {
	if !e.Started() {
		return "", ErrNoGame
	}
	ctx, span := e.tracer.Start(ctx, "game.save", trace.WithAttributes(attribute.Int("rooms", e.graph.Len())))
	defer span.End()

	st := &save.State{
		GameID:  e.gameID,
		SavedAt: time.Now().UTC(),
		Player:  e.player,
		Graph:   e.graph,
	}
	if err := e.storage.SaveGame(ctx, st); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		logger.WithError(e.logger, err).Error("Failed to save game")
		return "", fmt.Errorf("failed to save game: %w", err)
	}
	e.logger.Info("Game saved", "rooms", e.graph.Len())
	return "Game saved.", nil
}

// Load replaces the current game with the saved one. On any failure the
// current game is left untouched.
func (e *Engine) Load(ctx context.Context) (string, error) {
	ctx, span := e.tracer.Start(ctx, "game.load")
	defer span.End()

	st, err := e.storage.LoadGame(ctx, e.graphOptions()...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		if errors.Is(err, save.ErrNoSavedState) {
			return "", err
		}
		logger.WithError(e.logger, err).Error("Failed to load game")
		return "", fmt.Errorf("failed to load game: %w", err)
	}

	gameID := st.GameID
	if gameID == uuid.Nil {
		gameID = uuid.New()
	}
	e.replaceGame(ctx, gameID, st.Graph, st.Player)
	e.over = e.player.IsDefeated()
	span.SetAttributes(attribute.Int("rooms", e.graph.Len()))
	e.logger.Info("Game loaded", "rooms", e.graph.Len())

	return "Game loaded.\n" + e.Describe(ctx), nil
}

// Execute runs one parsed command. Help, quit and copy belong to the
// console and are answered here only with help text or nothing.
func (e *Engine) Execute(ctx context.Context, cmd Command) (string, error) {
	switch cmd.Action {
	case ActionMove:
		return e.Move(ctx, cmd.Arg)
	case ActionFight:
		return e.Fight()
	case ActionAttack:
		return e.Attack()
	case ActionHeal:
		return e.Heal()
	case ActionFlee:
		return e.Flee()
	case ActionInventory:
		return e.Inventory()
	case ActionStatus:
		return e.Status()
	case ActionLook:
		return e.Look(ctx)
	case ActionSave:
		return e.Save(ctx)
	case ActionLoad:
		return e.Load(ctx)
	case ActionHelp:
		return HelpText, nil
	case ActionQuit, ActionCopy:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, strings.TrimSpace(cmd.Raw))
	}
}
