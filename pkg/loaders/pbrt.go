package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// ErrInvalidPBRT is returned for malformed or unsupported PBRT input
var ErrInvalidPBRT = errors.New("loaders: invalid PBRT scene")

// PBRTStatement represents a parsed PBRT statement
type PBRTStatement struct {
	Type          string               // Statement type (Camera, Material, Shape, etc.)
	Subtype       string               // Subtype (perspective, diffuse, sphere, etc.)
	Parameters    map[string]PBRTParam // Named parameters
	MaterialIndex int                  // For shapes: index into PBRTScene.Materials (-1 = no material)
	Translation   r3.Vector            // Accumulated Translate in effect when the statement was read
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, rgb, point3, integer, ...)
	Values []string // Parameter values as strings
}

// PBRTScene contains the statements of a PBRT file that describe a Whitted scene.
// Only translations are supported; the camera always sits at the origin looking down -Z.
type PBRTScene struct {
	// Pre-WorldBegin statements
	Camera     *PBRTStatement
	Film       *PBRTStatement
	Integrator *PBRTStatement

	// World content (inside WorldBegin/WorldEnd)
	Materials    []PBRTStatement
	Shapes       []PBRTStatement
	LightSources []PBRTStatement
}

// graphicsState is the part of the PBRT graphics state saved by AttributeBegin
type graphicsState struct {
	materialIndex int
	translation   r3.Vector
}

// PBRTParser encapsulates the state and logic for parsing PBRT files
type PBRTParser struct {
	scene          *PBRTScene
	state          graphicsState
	stateStack     []graphicsState
	inWorld        bool
	line           int
	statementLines []string
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{
		scene: &PBRTScene{},
		state: graphicsState{materialIndex: -1},
	}
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.line++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loaders: reading PBRT input: %w", err)
	}

	if err := parser.finalize(); err != nil {
		return nil, err
	}
	return parser.scene, nil
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaders: open PBRT file: %w", err)
	}
	defer file.Close()

	scene, err := ParsePBRT(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Infof("loaded %s: %d shapes, %d lights, %d materials",
		filename, len(scene.Shapes), len(scene.LightSources), len(scene.Materials))
	return scene, nil
}

func (p *PBRTParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidPBRT, p.line, fmt.Sprintf(format, args...))
}

// flush parses and routes the statement accumulated so far
func (p *PBRTParser) flush() error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return p.errorf("%v in %q", err, fullStatement)
	}
	return p.routeStatement(stmt)
}

// processLine processes a single line of PBRT input
func (p *PBRTParser) processLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch line {
	case "WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd", "TransformBegin", "TransformEnd":
		if err := p.flush(); err != nil {
			return err
		}
		return p.processDirective(line)
	}

	// Parameters may continue on the following lines
	if isStatementStart(line) {
		if err := p.flush(); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}
	if len(p.statementLines) == 0 {
		return p.errorf("unexpected continuation line %q", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

func (p *PBRTParser) processDirective(directive string) error {
	switch directive {
	case "WorldBegin":
		p.inWorld = true
		p.state.translation = r3.Vector{}
	case "WorldEnd":
		p.inWorld = false
	case "AttributeBegin", "TransformBegin":
		p.stateStack = append(p.stateStack, p.state)
	case "AttributeEnd", "TransformEnd":
		if len(p.stateStack) == 0 {
			return p.errorf("%s without matching Begin", directive)
		}
		p.state = p.stateStack[len(p.stateStack)-1]
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
	}
	return nil
}

// finalize processes any remaining accumulated statements
func (p *PBRTParser) finalize() error {
	if err := p.flush(); err != nil {
		return err
	}
	if len(p.stateStack) != 0 {
		return p.errorf("%d unterminated AttributeBegin blocks", len(p.stateStack))
	}
	return nil
}

// routeStatement routes a parsed statement to the appropriate section of the scene
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) error {
	switch stmt.Type {
	case "Translate":
		t, err := parseFloats(stmt.Parameters["values"].Values, 3)
		if err != nil {
			return p.errorf("Translate: %v", err)
		}
		p.state.translation = p.state.translation.Add(r3.Vector{X: t[0], Y: t[1], Z: t[2]})
		return nil
	case "LookAt", "Rotate", "Scale", "Transform", "ConcatTransform":
		return p.errorf("%s is not supported; only Translate may move objects", stmt.Type)
	}

	stmt.Translation = p.state.translation
	if !p.inWorld {
		switch stmt.Type {
		case "Camera":
			p.scene.Camera = stmt
		case "Film":
			p.scene.Film = stmt
		case "Integrator":
			p.scene.Integrator = stmt
		}
		return nil
	}

	switch stmt.Type {
	case "Material":
		p.scene.Materials = append(p.scene.Materials, *stmt)
		p.state.materialIndex = len(p.scene.Materials) - 1
	case "Shape":
		stmt.MaterialIndex = p.state.materialIndex
		p.scene.Shapes = append(p.scene.Shapes, *stmt)
	case "LightSource":
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	default:
		logger.Debugf("ignoring PBRT statement %s %q", stmt.Type, stmt.Subtype)
	}
	return nil
}

// tokenizePBRT tokenizes a PBRT line respecting quoted strings and brackets
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes, inBrackets := false, false

	emit := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, char := range line {
		switch {
		case char == '"' && !inBrackets:
			current.WriteRune(char)
			if inQuotes {
				emit()
			}
			inQuotes = !inQuotes
		case char == '[' && !inQuotes:
			emit()
			current.WriteRune(char)
			inBrackets = true
		case char == ']' && !inQuotes && inBrackets:
			current.WriteRune(char)
			emit()
			inBrackets = false
		case (char == ' ' || char == '\t') && !inQuotes && !inBrackets:
			emit()
		default:
			current.WriteRune(char)
		}
	}
	emit()

	return tokens
}

// parseStatement parses a single PBRT statement line
func parseStatement(line string) (*PBRTStatement, error) {
	// Transform statements take bare numbers
	for _, transform := range []string{"LookAt", "Translate", "Rotate", "Scale", "Transform", "ConcatTransform"} {
		if rest, ok := strings.CutPrefix(line, transform); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return &PBRTStatement{
				Type:       transform,
				Parameters: map[string]PBRTParam{"values": {Type: "float", Values: strings.Fields(strings.Trim(rest, " \t[]"))}},
			}, nil
		}
	}

	// Regular statements: Type "subtype" "param type" value
	parts := tokenizePBRT(line)
	if len(parts) < 2 {
		return nil, errors.New("missing statement subtype")
	}

	stmt := &PBRTStatement{
		Type:          parts[0],
		MaterialIndex: -1,
		Parameters:    make(map[string]PBRTParam),
	}
	if !strings.HasPrefix(parts[1], `"`) || !strings.HasSuffix(parts[1], `"`) {
		return nil, fmt.Errorf("expected quoted subtype, got %s", parts[1])
	}
	stmt.Subtype = strings.Trim(parts[1], `"`)
	parts = parts[2:]

	for i := 0; i < len(parts); i += 2 {
		paramParts := strings.Fields(strings.Trim(parts[i], `"`))
		if len(paramParts) != 2 || !strings.HasPrefix(parts[i], `"`) {
			return nil, fmt.Errorf("malformed parameter declaration %s", parts[i])
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("parameter %s has no value", paramParts[1])
		}

		raw := parts[i+1]
		var values []string
		if strings.HasPrefix(raw, "[") {
			values = strings.Fields(strings.Trim(raw, "[] "))
		} else {
			values = []string{raw}
		}
		for j, v := range values {
			values[j] = strings.Trim(v, `"`)
		}

		stmt.Parameters[paramParts[1]] = PBRTParam{Type: paramParts[0], Values: values}
	}

	return stmt, nil
}

func parseFloats(values []string, want int) ([]float64, error) {
	if want > 0 && len(values) != want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		out[i] = f
	}
	return out, nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetIntParam extracts an integer parameter from a PBRT statement
func (stmt *PBRTStatement) GetIntParam(name string) (int, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetVectorParam extracts an rgb or point3 parameter from a PBRT statement
func (stmt *PBRTStatement) GetVectorParam(name string) (r3.Vector, bool) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return r3.Vector{}, false
	}
	v, err := parseFloats(param.Values, 3)
	if err != nil {
		return r3.Vector{}, false
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, true
}

// GetStringParam extracts a string parameter from a PBRT statement
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// GetPoint3Array extracts a flat point3 array such as trianglemesh "P"
func (stmt *PBRTStatement) GetPoint3Array(name string) ([]r3.Vector, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s %q has no %s", ErrInvalidPBRT, stmt.Type, stmt.Subtype, name)
	}
	v, err := parseFloats(param.Values, 0)
	if err != nil || len(v)%3 != 0 {
		return nil, fmt.Errorf("%w: %s must hold xyz triples", ErrInvalidPBRT, name)
	}
	points := make([]r3.Vector, len(v)/3)
	for i := range points {
		points[i] = r3.Vector{X: v[3*i], Y: v[3*i+1], Z: v[3*i+2]}
	}
	return points, nil
}

// GetPoint2Array extracts a flat point2 array such as trianglemesh "uv".
// A missing parameter yields nil.
func (stmt *PBRTStatement) GetPoint2Array(name string) ([]r2.Point, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, nil
	}
	v, err := parseFloats(param.Values, 0)
	if err != nil || len(v)%2 != 0 {
		return nil, fmt.Errorf("%w: %s must hold uv pairs", ErrInvalidPBRT, name)
	}
	points := make([]r2.Point, len(v)/2)
	for i := range points {
		points[i] = r2.Point{X: v[2*i], Y: v[2*i+1]}
	}
	return points, nil
}

// GetIntArray extracts an integer array such as trianglemesh "indices"
func (stmt *PBRTStatement) GetIntArray(name string) ([]int, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s %q has no %s", ErrInvalidPBRT, stmt.Type, stmt.Subtype, name)
	}
	out := make([]int, len(param.Values))
	for i, v := range param.Values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q in %s", ErrInvalidPBRT, v, name)
		}
		out[i] = n
	}
	return out, nil
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform", "ConcatTransform",
		"ReverseOrientation", "Attribute",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || strings.HasPrefix(line, stmt+"\t") || line == stmt {
			return true
		}
	}
	return false
}
