// Package gm parses chat-prefixed GM commands into typed commands. Parsing
// is pure: the world supplies lookups through Env and executes the returned
// command itself.
package gm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position is a point on a specific map.
type Position struct {
	Map         uint32
	X           float32
	Y           float32
	Z           float32
	Orientation float32
}

// Env gives the parser read access to the caller's surroundings.
type Env interface {
	// Position is the commanding player's current position.
	Position() Position
	// Target is the commanding player's selected guid, zero for none.
	Target() uint64
	// SelfGUID is the commanding player's own guid.
	SelfGUID() uint64
	// FindEntity resolves a guid to a name and position.
	FindEntity(guid uint64) (name string, pos Position, ok bool)
	// ItemExists reports whether an item entry is known.
	ItemExists(entry uint32) bool
	// ItemByName resolves an item name to its entry.
	ItemByName(name string) (uint32, bool)
	// LocationByName resolves a bookmarked location name.
	LocationByName(name string) (Position, bool)
}

// Command is one parsed GM command.
type Command interface {
	gmCommand()
}

type WhereAmI struct{}

type Teleport struct {
	Pos Position
}

type SetRunSpeed struct {
	Speed float32
}

type Mark struct {
	Names []string
	Pos   Position
}

type RangeToTarget struct {
	Distance float32
}

type AddItem struct {
	Entry uint32
}

type Information struct {
	Target uint64
}

type LineOfSight struct {
	Target   uint64
	Expected bool
}

type MoveNpc struct{}

func (WhereAmI) gmCommand()      {}
func (Teleport) gmCommand()      {}
func (SetRunSpeed) gmCommand()   {}
func (Mark) gmCommand()          {}
func (RangeToTarget) gmCommand() {}
func (AddItem) gmCommand()       {}
func (Information) gmCommand()   {}
func (LineOfSight) gmCommand()   {}
func (MoveNpc) gmCommand()       {}

// Parse turns a raw command string (without the leading dot) into a typed
// command. Errors are player-facing text.
func Parse(message string, env Env) (Command, error) {
	switch message {
	case "north":
		p := env.Position()
		p.X += 5.0
		return Teleport{Pos: p}, nil
	case "south":
		p := env.Position()
		p.X -= 5.0
		return Teleport{Pos: p}, nil
	case "east":
		p := env.Position()
		p.Y -= 5.0
		return Teleport{Pos: p}, nil
	case "west":
		p := env.Position()
		p.Y += 5.0
		return Teleport{Pos: p}, nil
	case "whereami":
		return WhereAmI{}, nil
	case "move":
		return MoveNpc{}, nil
	case "los":
		return LineOfSight{Target: env.Target(), Expected: true}, nil
	case "nolos":
		return LineOfSight{Target: env.Target(), Expected: false}, nil
	case "range":
		return parseRange(env)
	}

	// Commands with arguments match on the first whitespace-delimited word
	// only, so ".speedy 5" is not ".speed y 5".
	word, rest, _ := strings.Cut(message, " ")
	rest = strings.TrimSpace(rest)
	switch word {
	case "info":
		return parseInfo(rest, env)
	case "tp":
		p, found := env.LocationByName(rest)
		if !found {
			return nil, fmt.Errorf("location not found: '%s'", rest)
		}
		return Teleport{Pos: p}, nil
	case "go":
		return parseGo(rest, env)
	case "speed":
		speed, err := parseFloat(rest, "speed argument")
		if err != nil {
			return nil, err
		}
		return SetRunSpeed{Speed: speed}, nil
	case "mark":
		return parseMark(rest, env)
	case "extend":
		return parseExtend(rest, env), nil
	case "float":
		d := float32(5.0)
		if v, err := strconv.ParseFloat(rest, 32); err == nil {
			d = float32(v)
		}
		p := env.Position()
		p.Z += d
		return Teleport{Pos: p}, nil
	case "additem":
		return parseAddItem(rest, env)
	}

	return nil, fmt.Errorf("invalid GM command: %s", message)
}

func parseInfo(arg string, env Env) (Command, error) {
	if guid, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return Information{Target: guid}, nil
	}
	if env.Target() != 0 {
		return Information{Target: env.Target()}, nil
	}
	if arg == "" {
		return nil, fmt.Errorf("no target selected")
	}
	return nil, fmt.Errorf("parameter '%s' is not a valid GUID", arg)
}

func parseGo(args string, env Env) (Command, error) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		target := env.Target()
		if target == 0 {
			return nil, fmt.Errorf("must have a target for .go command without arguments")
		}
		_, pos, ok := env.FindEntity(target)
		if !ok {
			return nil, fmt.Errorf("unable to find target '%d'", target)
		}
		return Teleport{Pos: pos}, nil
	case 1:
		name := strings.ToLower(fields[0])
		p, ok := env.LocationByName(name)
		if !ok {
			return nil, fmt.Errorf("unable to find '%s'", name)
		}
		return Teleport{Pos: p}, nil
	case 2:
		return nil, fmt.Errorf("can not teleport with only x and y coordinates")
	case 3, 4:
		x, err := parseFloat(fields[0], "x coordinate")
		if err != nil {
			return nil, err
		}
		y, err := parseFloat(fields[1], "y coordinate")
		if err != nil {
			return nil, err
		}
		z, err := parseFloat(fields[2], "z coordinate")
		if err != nil {
			return nil, err
		}
		self := env.Position()
		mapID := self.Map
		if len(fields) == 4 {
			m, err := strconv.ParseUint(fields[3], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid map: '%s'", fields[3])
			}
			mapID = uint32(m)
		}
		return Teleport{Pos: Position{
			Map:         mapID,
			X:           x,
			Y:           y,
			Z:           z,
			Orientation: self.Orientation,
		}}, nil
	default:
		return nil, fmt.Errorf("incorrect '.go' command: too many arguments")
	}
}

func parseMark(args string, env Env) (Command, error) {
	if args == "" {
		return nil, fmt.Errorf(".mark a list of names separated by a comma, like '.mark Honor Hold,HH'")
	}
	parts := strings.Split(args, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, strings.TrimSpace(p))
	}
	return Mark{Names: names, Pos: env.Position()}, nil
}

func parseRange(env Env) (Command, error) {
	target := env.Target()
	if target == 0 {
		return nil, fmt.Errorf("unable to find range: no target")
	}
	if target == env.SelfGUID() {
		return nil, fmt.Errorf("unable to find range: you are targeting yourself")
	}
	name, pos, ok := env.FindEntity(target)
	if !ok {
		return nil, fmt.Errorf("unable to find range: unable to find target '%d'", target)
	}
	self := env.Position()
	if pos.Map != self.Map {
		return nil, fmt.Errorf("unable to find range: target '%s' (%d) is on map '%d' while you are on '%d'",
			name, target, pos.Map, self.Map)
	}
	return RangeToTarget{Distance: distance(self, pos)}, nil
}

func parseExtend(arg string, env Env) Command {
	d := float32(5.0)
	if v, err := strconv.ParseFloat(arg, 32); err == nil {
		d = float32(v)
	}
	p := env.Position()
	p.X += float32(math.Cos(float64(p.Orientation))) * d
	p.Y += float32(math.Sin(float64(p.Orientation))) * d
	return Teleport{Pos: p}
}

func parseAddItem(arg string, env Env) (Command, error) {
	if entry, err := strconv.ParseUint(arg, 10, 32); err == nil {
		if !env.ItemExists(uint32(entry)) {
			return nil, fmt.Errorf("unable to additem: no item with id '%d'", entry)
		}
		return AddItem{Entry: uint32(entry)}, nil
	}
	if entry, ok := env.ItemByName(arg); ok {
		return AddItem{Entry: entry}, nil
	}
	return nil, fmt.Errorf("unable to additem: '%s' is not a valid entry", arg)
}

func parseFloat(v, argumentName string) (float32, error) {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: '%s'", argumentName, v)
	}
	return float32(f), nil
}

func distance(a, b Position) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}
