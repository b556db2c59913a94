package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jwebster45206/ai-dungeon-master/pkg/actor"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
)

// SaveInspector collects problems that decode accepts but a healthy game
// should never produce.
type SaveInspector struct {
	warnings []string
}

func (v *SaveInspector) warn(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// Check inspects a decoded save.
func (v *SaveInspector) Check(st *save.State) {
	v.warnings = nil
	v.checkPlayer(st.Player)
	v.checkRooms(st.Graph)
	v.checkReachable(st.Graph, st.Player.RoomID())
}

func (v *SaveInspector) checkPlayer(p *actor.Player) {
	spec := p.Spec
	if spec.Health > spec.MaxHealth {
		v.warn("player health %d exceeds max health %d", spec.Health, spec.MaxHealth)
	}
	if p.IsDefeated() {
		v.warn("player is defeated; loading resumes a finished game")
	}
	if spec.Level < 1 {
		v.warn("player level %d is below 1", spec.Level)
	}
	if spec.XP >= actor.LevelUpXP {
		v.warn("player XP %d should have triggered a level up", spec.XP)
	}
}

func (v *SaveInspector) checkRooms(g *dungeon.Graph) {
	seen := make(map[string]int)
	for _, id := range g.RoomIDs() {
		room, _ := g.Room(id)
		if prev, ok := seen[room.Name]; ok {
			v.warn("rooms %d and %d share the name %q", prev, id, room.Name)
		} else {
			seen[room.Name] = id
		}
		if room.IsBoss && room.Occupant == nil {
			v.warn("room %d is a boss room with no occupant", id)
		}
	}
}

// checkReachable walks exits from the player's room; generated rooms are
// always linked, so anything unreached was edited in by hand.
func (v *SaveInspector) checkReachable(g *dungeon.Graph, from int) {
	visited := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		room, ok := g.Room(queue[0])
		queue = queue[1:]
		if !ok {
			continue
		}
		for _, d := range dungeon.Directions {
			if next, ok := room.Exits[d]; ok && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, id := range g.RoomIDs() {
		if !visited[id] {
			v.warn("room %d cannot be reached from the player's room", id)
		}
	}
}

// Report joins the warnings one per line.
func (v *SaveInspector) Report() string {
	return strings.Join(v.warnings, "\n")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Summary describes the game and the player in a few lines.
func Summary(st *save.State) string {
	p := st.Player
	room, _ := st.Graph.Room(p.RoomID())

	defeated := 0
	for _, id := range st.Graph.RoomIDs() {
		r, _ := st.Graph.Room(id)
		if r.Occupant != nil && r.Occupant.Defeated {
			defeated++
		}
	}

	inventory := "(empty)"
	if items := p.Inventory(); len(items) > 0 {
		inventory = strings.Join(items, ", ")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game:      %s\n", st.GameID))
	sb.WriteString(fmt.Sprintf("Saved at:  %s\n", st.SavedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Player:    %s (level %d, %d XP)\n", p.Name(), p.Level(), p.XP()))
	sb.WriteString(fmt.Sprintf("Health:    %d/%d\n", p.Health(), p.MaxHealth()))
	sb.WriteString(fmt.Sprintf("Inventory: %s\n", inventory))
	sb.WriteString(fmt.Sprintf("Location:  room %d (%s)\n", room.ID, room.Name))
	sb.WriteString(fmt.Sprintf("Rooms:     %d discovered, %d occupants defeated", st.Graph.Len(), defeated))
	return sb.String()
}

// RoomTable lists every room with its occupant and exits.
func RoomTable(st *save.State) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "OCCUPANT", "BOSS", "EXITS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, id := range st.Graph.RoomIDs() {
		room, _ := st.Graph.Room(id)
		name := room.Name
		if id == st.Player.RoomID() {
			name += " *"
		}
		boss := ""
		if room.IsBoss {
			boss = "yes"
		}
		t.Row(fmt.Sprint(id), name, occupantLabel(room.Occupant), boss, exitList(room))
	}
	return t.String()
}

func occupantLabel(o *dungeon.Occupant) string {
	switch {
	case o == nil:
		return "-"
	case o.Defeated:
		return o.Name + " (defeated)"
	default:
		return o.Name
	}
}

func exitList(room *dungeon.Room) string {
	var parts []string
	for _, d := range dungeon.Directions {
		if next, ok := room.Exits[d]; ok {
			parts = append(parts, fmt.Sprintf("%s:%d", string(d)[:1], next))
		}
	}
	return strings.Join(parts, " ")
}
