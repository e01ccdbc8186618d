package syntax

import (
	"fmt"
	"strings"

	"msci/pkg/lexer"
)

// ParameterType is the declared type of one command parameter.
type ParameterType int

const (
	ParamValue ParameterType = iota
	ParamVariable
	ParamReturnValue
	ParamReturnValueIf
	ParamReturnValueIfStart
	ParamInterruptReturnValueIf
	ParamLabelName
	ParamLabelNumber
	ParamScriptName
	ParamComment
	ParamCondition
	ParamExpression
	ParamParameter
	ParamNumber
	ParamString
	ParamBoolean
	ParamArray
	ParamConstant
	ParamRelation
	ParamReferenceObject
	ParamSectorPosition
	ParamStationSerial
	ParamTransportClass
	ParamWingCommand
	ParamObjectCommand
	ParamObjectCommandSignal
	ParamFlightReturn
	ParamDataType
	ParamWare
	ParamRace
	ParamClass
	ParamShip
	ParamStation
	ParamSector
	ParamShipType
	ParamStationType
	ParamVarNumber
	ParamVarString
	ParamVarBoolean
	ParamVarArray
	ParamVarShip
	ParamVarStation
	ParamVarShipStation
	ParamVarSector
	ParamVarWare
	ParamVarRace
	ParamVarClass
	ParamVarConstant
	ParamVarAsteroid
	ParamVarFlightReturn
	ParamVarSectorPosition
	ParamVarPlayerShip
	ParamVarPlayerStation
	ParamVarPlayerShipStation
	ParamVarHomeBase
	ParamVarWarpGate
	ParamVarShipType
	ParamVarStationType
	ParamVarShipTypeStationType
	ParamVarStationSerial
	ParamVarCarrier
	ParamVarCarrierDock
	ParamVarEnvironment
	ParamVarQuest
	ParamVarPassenger
	ParamVarFleet
	ParamVarWing
	ParamVarWingCommand
	ParamVarObjectCommand
	ParamVarDataType
	ParamVarRelation
	ParamVarTransportClass
	ParamVarGlobalParameter
)

// Categories of token kinds a parameter accepts.
type acceptance int

const (
	acceptAny acceptance = iota
	acceptVariable
	acceptNumber
	acceptString
	acceptObject
	acceptArray
	acceptLabel
)

type paramInfo struct {
	name   string
	accept acceptance
}

var paramTable = [...]paramInfo{
	ParamValue:                  {"Value", acceptAny},
	ParamVariable:               {"Var", acceptVariable},
	ParamReturnValue:            {"RetVar", acceptVariable},
	ParamReturnValueIf:          {"RetVar/IF", acceptVariable},
	ParamReturnValueIfStart:     {"RetVar/IF/START", acceptVariable},
	ParamInterruptReturnValueIf: {"Interrupt RetVar/IF", acceptVariable},
	ParamLabelName:              {"Label Name", acceptLabel},
	ParamLabelNumber:            {"Label Number", acceptNumber},
	ParamScriptName:             {"Script Name", acceptLabel},
	ParamComment:                {"Comment", acceptAny},
	ParamCondition:              {"Condition", acceptAny},
	ParamExpression:             {"Expression", acceptAny},
	ParamParameter:              {"Parameter", acceptAny},
	ParamNumber:                 {"Number", acceptNumber},
	ParamString:                 {"String", acceptString},
	ParamBoolean:                {"Boolean", acceptNumber},
	ParamArray:                  {"Array", acceptArray},
	ParamConstant:               {"Constant", acceptObject},
	ParamRelation:               {"Relation", acceptObject},
	ParamReferenceObject:        {"RefObj", acceptObject},
	ParamSectorPosition:         {"Sector Position", acceptAny},
	ParamStationSerial:          {"Station Serial", acceptObject},
	ParamTransportClass:         {"Transport Class", acceptObject},
	ParamWingCommand:            {"Wing Command", acceptObject},
	ParamObjectCommand:          {"Object Command", acceptObject},
	ParamObjectCommandSignal:    {"Object Command/Signal", acceptObject},
	ParamFlightReturn:           {"Flight Retcode", acceptObject},
	ParamDataType:               {"DataType", acceptObject},
	ParamWare:                   {"Ware", acceptObject},
	ParamRace:                   {"Race", acceptObject},
	ParamClass:                  {"Class", acceptObject},
	ParamShip:                   {"Ship", acceptObject},
	ParamStation:                {"Station", acceptObject},
	ParamSector:                 {"Sector", acceptObject},
	ParamShipType:               {"Ship Type", acceptObject},
	ParamStationType:            {"Station Type", acceptObject},
	ParamVarNumber:              {"Var/Number", acceptNumber},
	ParamVarString:              {"Var/String", acceptString},
	ParamVarBoolean:             {"Var/Boolean", acceptNumber},
	ParamVarArray:               {"Var/Array", acceptArray},
	ParamVarShip:                {"Var/Ship", acceptObject},
	ParamVarStation:             {"Var/Station", acceptObject},
	ParamVarShipStation:         {"Var/Ship/Station", acceptObject},
	ParamVarSector:              {"Var/Sector", acceptObject},
	ParamVarWare:                {"Var/Ware", acceptObject},
	ParamVarRace:                {"Var/Race", acceptObject},
	ParamVarClass:               {"Var/Class", acceptObject},
	ParamVarConstant:            {"Var/Constant", acceptObject},
	ParamVarAsteroid:            {"Var/Asteroid", acceptObject},
	ParamVarFlightReturn:        {"Var/Flight Retcode", acceptObject},
	ParamVarSectorPosition:      {"Var/Sector Position", acceptAny},
	ParamVarPlayerShip:          {"Var/Ship owned by Player", acceptObject},
	ParamVarPlayerStation:       {"Var/Station owned by Player", acceptObject},
	ParamVarPlayerShipStation:   {"Var/Ship/Station owned by Player", acceptObject},
	ParamVarHomeBase:            {"Var/Homebase", acceptObject},
	ParamVarWarpGate:            {"Var/Warpgate", acceptObject},
	ParamVarShipType:            {"Var/Ship Type", acceptObject},
	ParamVarStationType:         {"Var/Station Type", acceptObject},
	ParamVarShipTypeStationType: {"Var/Ship Type/Station Type", acceptObject},
	ParamVarStationSerial:       {"Var/Station Serial", acceptObject},
	ParamVarCarrier:             {"Var/Carrier", acceptObject},
	ParamVarCarrierDock:         {"Var/Station/Carrier to dock at", acceptObject},
	ParamVarEnvironment:         {"Var/Environment", acceptObject},
	ParamVarQuest:               {"Var/Quest", acceptObject},
	ParamVarPassenger:           {"Var/Passenger", acceptObject},
	ParamVarFleet:               {"Var/Fleet", acceptObject},
	ParamVarWing:                {"Var/Wing", acceptObject},
	ParamVarWingCommand:         {"Var/Wing Command", acceptObject},
	ParamVarObjectCommand:       {"Var/Object Command", acceptObject},
	ParamVarDataType:            {"Var/DataType", acceptObject},
	ParamVarRelation:            {"Var/Relation", acceptObject},
	ParamVarTransportClass:      {"Var/Transport Class", acceptObject},
	ParamVarGlobalParameter:     {"Var/Global Parameter", acceptAny},
}

var paramByName = func() map[string]ParameterType {
	m := make(map[string]ParameterType, len(paramTable))
	for i, info := range paramTable {
		m[strings.ToLower(info.name)] = ParameterType(i)
	}
	return m
}()

func (p ParameterType) String() string {
	if p >= 0 && int(p) < len(paramTable) {
		return paramTable[p].name
	}
	return fmt.Sprintf("ParameterType(%d)", int(p))
}

func (p ParameterType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParseParameterType looks a parameter type up by its catalog name.
func ParseParameterType(name string) (ParameterType, error) {
	p, ok := paramByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown parameter type %q", name)
	}
	return p, nil
}

// IsReturn reports whether p receives a command's result.
func (p ParameterType) IsReturn() bool {
	switch p {
	case ParamReturnValue, ParamReturnValueIf, ParamReturnValueIfStart, ParamInterruptReturnValueIf:
		return true
	}
	return false
}

// AllowsConditional reports whether the result may feed an if/while/skip-if.
func (p ParameterType) AllowsConditional() bool {
	return p == ParamReturnValueIf || p == ParamReturnValueIfStart || p == ParamInterruptReturnValueIf
}

// AllowsStart reports whether the command may be launched with "start".
func (p ParameterType) AllowsStart() bool {
	return p == ParamReturnValueIfStart
}

// Accepts reports whether a token of the given kind may fill this parameter.
func (p ParameterType) Accepts(kind lexer.TokenKind) bool {
	if p < 0 || int(p) >= len(paramTable) {
		return false
	}
	if kind == lexer.TokenVariable {
		return true
	}
	switch paramTable[p].accept {
	case acceptVariable:
		return false
	case acceptNumber:
		return kind == lexer.TokenNumber || kind == lexer.TokenConstant || kind == lexer.TokenNull
	case acceptString:
		return kind == lexer.TokenString || kind == lexer.TokenNull
	case acceptObject:
		return kind != lexer.TokenString
	case acceptArray:
		return kind == lexer.TokenNull
	case acceptLabel:
		return kind == lexer.TokenString
	}
	return kind.IsValue()
}

// ParameterUsage marks parameters whose value refers to external resources.
type ParameterUsage int

const (
	UsageNone ParameterUsage = iota
	UsagePageID
	UsageStringID
	UsageScriptName
)

func (u ParameterUsage) String() string {
	switch u {
	case UsagePageID:
		return "PageID"
	case UsageStringID:
		return "StringID"
	case UsageScriptName:
		return "ScriptName"
	default:
		return "None"
	}
}

func (u ParameterUsage) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func parseUsage(s string) (ParameterUsage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return UsageNone, nil
	case "pageid":
		return UsagePageID, nil
	case "stringid":
		return UsageStringID, nil
	case "scriptname":
		return UsageScriptName, nil
	}
	return UsageNone, fmt.Errorf("unknown parameter usage %q", s)
}

// ParameterSyntax describes one parameter slot of a command.
type ParameterSyntax struct {
	Type          ParameterType  `json:"type"`
	PhysicalIndex int            `json:"physical_index"`
	DisplayIndex  int            `json:"display_index"`
	Usage         ParameterUsage `json:"usage"`
}

// parseParameterSpec reads "Type" or "Type|Usage".
func parseParameterSpec(spec string) (ParameterType, ParameterUsage, error) {
	name, usageName, _ := strings.Cut(spec, "|")
	p, err := ParseParameterType(name)
	if err != nil {
		return 0, UsageNone, err
	}
	usage, err := parseUsage(usageName)
	if err != nil {
		return 0, UsageNone, err
	}
	if usage == UsageNone && p == ParamScriptName {
		usage = UsageScriptName
	}
	return p, usage, nil
}
