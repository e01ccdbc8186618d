package syntax

import (
	"fmt"
	"strings"
)

// CommandGroup is the editor category a command is listed under.
type CommandGroup int

const (
	GroupArray CommandGroup = iota
	GroupCustom
	GroupFleet
	GroupFlowControl
	GroupGameEngine
	GroupGraph
	GroupGoods
	GroupHidden
	GroupMacro
	GroupMarine
	GroupMaths
	GroupMerchant
	GroupNonPlayer
	GroupObjectAction
	GroupObjectProperty
	GroupPassenger
	GroupPilot
	GroupPlayer
	GroupScriptProperty
	GroupShipAction
	GroupShipProperty
	GroupShipTrade
	GroupShipWing
	GroupStationProperty
	GroupStationTrade
	GroupStockExchange
	GroupString
	GroupSystemProperty
	GroupUniverseData
	GroupUniverseProperty
	GroupUserInterface
	GroupWar
	GroupWareProperty
	GroupWeaponProperty
)

var groupNames = [...]string{
	GroupArray:            "ARRAY",
	GroupCustom:           "CUSTOM",
	GroupFleet:            "FLEET",
	GroupFlowControl:      "FLOW_CONTROL",
	GroupGameEngine:       "GAME_ENGINE",
	GroupGraph:            "GRAPH",
	GroupGoods:            "GOODS",
	GroupHidden:           "HIDDEN",
	GroupMacro:            "MACRO",
	GroupMarine:           "MARINE",
	GroupMaths:            "MATHS",
	GroupMerchant:         "MERCHANT",
	GroupNonPlayer:        "NON_PLAYER",
	GroupObjectAction:     "OBJECT_ACTION",
	GroupObjectProperty:   "OBJECT_PROPERTY",
	GroupPassenger:        "PASSENGER",
	GroupPilot:            "PILOT",
	GroupPlayer:           "PLAYER",
	GroupScriptProperty:   "SCRIPT_PROPERTY",
	GroupShipAction:       "SHIP_ACTION",
	GroupShipProperty:     "SHIP_PROPERTY",
	GroupShipTrade:        "SHIP_TRADE",
	GroupShipWing:         "SHIP_WING",
	GroupStationProperty:  "STATION_PROPERTY",
	GroupStationTrade:     "STATION_TRADE",
	GroupStockExchange:    "STOCK_EXCHANGE",
	GroupString:           "STRING",
	GroupSystemProperty:   "SYSTEM_PROPERTY",
	GroupUniverseData:     "UNIVERSE_DATA",
	GroupUniverseProperty: "UNIVERSE_PROPERTY",
	GroupUserInterface:    "USER_INTERFACE",
	GroupWar:              "WAR",
	GroupWareProperty:     "WARE_PROPERTY",
	GroupWeaponProperty:   "WEAPON_PROPERTY",
}

func (g CommandGroup) String() string {
	if g >= 0 && int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("CommandGroup(%d)", int(g))
}

func (g CommandGroup) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGroup accepts group names with spaces, dashes or underscores in any case.
func ParseGroup(name string) (CommandGroup, error) {
	norm := strings.ToUpper(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, n := range groupNames {
		if n == norm {
			return CommandGroup(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command group %q", name)
}

// Execution describes whether a command may run as a separate task.
type Execution int

const (
	ExecutionSerial Execution = iota
	ExecutionConcurrent
	ExecutionEither
)

func (e Execution) String() string {
	switch e {
	case ExecutionConcurrent:
		return "CONCURRENT"
	case ExecutionEither:
		return "EITHER"
	default:
		return "SERIAL"
	}
}

func (e Execution) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}
