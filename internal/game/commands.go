package game

import (
	"strings"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
)

// Action is what a line of player input asks for.
type Action int

const (
	ActionUnknown Action = iota
	ActionMove
	ActionFight
	ActionAttack
	ActionHeal
	ActionFlee
	ActionInventory
	ActionStatus
	ActionLook
	ActionSave
	ActionLoad
	ActionHelp
	ActionQuit
	ActionCopy
)

var actionNames = map[Action]string{
	ActionUnknown:   "unknown",
	ActionMove:      "move",
	ActionFight:     "fight",
	ActionAttack:    "attack",
	ActionHeal:      "heal",
	ActionFlee:      "flee",
	ActionInventory: "inventory",
	ActionStatus:    "status",
	ActionLook:      "look",
	ActionSave:      "save",
	ActionLoad:      "load",
	ActionHelp:      "help",
	ActionQuit:      "quit",
	ActionCopy:      "copy",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Command is one parsed line of input. Arg carries the direction for moves.
type Command struct {
	Action Action
	Arg    string
	Raw    string
}

var verbs = map[string]Action{
	"fight":     ActionFight,
	"attack":    ActionAttack,
	"a":         ActionAttack,
	"heal":      ActionHeal,
	"h":         ActionHeal,
	"flee":      ActionFlee,
	"run":       ActionFlee,
	"inventory": ActionInventory,
	"inv":       ActionInventory,
	"i":         ActionInventory,
	"status":    ActionStatus,
	"stats":     ActionStatus,
	"look":      ActionLook,
	"l":         ActionLook,
	"save":      ActionSave,
	"load":      ActionLoad,
	"help":      ActionHelp,
	"?":         ActionHelp,
	"quit":      ActionQuit,
	"exit":      ActionQuit,
	"q":         ActionQuit,
	"copy":      ActionCopy,
}

var shortDirections = map[string]dungeon.Direction{
	"n": dungeon.North,
	"s": dungeon.South,
	"e": dungeon.East,
	"w": dungeon.West,
}

// ParseCommand reads one line of input. Matching is case-insensitive and
// ignores surrounding whitespace. "move" and "go" take a direction; a bare
// direction or its first letter is also a move. A move with a bad or missing
// direction keeps the raw word in Arg so the engine can report it.
func ParseCommand(input string) Command {
	raw := input
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{Action: ActionUnknown, Raw: raw}
	}

	verb := fields[0]
	if verb == "move" || verb == "go" || verb == "walk" {
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
			if d, ok := shortDirections[arg]; ok {
				arg = string(d)
			}
		}
		return Command{Action: ActionMove, Arg: arg, Raw: raw}
	}
	if d, ok := shortDirections[verb]; ok && len(fields) == 1 {
		return Command{Action: ActionMove, Arg: string(d), Raw: raw}
	}
	if d, err := dungeon.ParseDirection(verb); err == nil && len(fields) == 1 {
		return Command{Action: ActionMove, Arg: string(d), Raw: raw}
	}
	if a, ok := verbs[verb]; ok {
		return Command{Action: a, Raw: raw}
	}
	return Command{Action: ActionUnknown, Raw: raw}
}

// HelpText lists the commands the console understands.
const HelpText = `Commands:
  move <north|south|east|west>  (or n, s, e, w)
  fight                         start a battle with the room's occupant
  attack                        strike the enemy you are fighting
  heal                          drink a health potion
  flee                          run from a battle
  inventory (i)                 show health and items
  status                        show level, XP and location
  look (l)                      describe the room again
  save / load                   write or restore the saved game
  copy                          copy the last output to the clipboard
  help                          show this list
  quit                          leave the dungeon`
