package zone

import (
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/lawnchairsociety/dungeongen/internal/mobs"
	"github.com/lawnchairsociety/dungeongen/internal/pipeline"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
	"github.com/lawnchairsociety/dungeongen/internal/spawn"
)

var (
	intRangeType   = reflect.TypeOf(rangeindex.IntRange{})
	priorityType   = reflect.TypeOf(pipeline.Priority{})
	stepSpecType   = reflect.TypeOf(StepSpec{})
	zoneStepsType  = reflect.TypeOf(ZoneSteps{})
	conditionsType = reflect.TypeOf(mobs.Conditions{})
	featuresType   = reflect.TypeOf(mobs.Features{})

	rangeindexPkg = intRangeType.PkgPath()
	spawnPkg      = reflect.TypeOf(spawn.Entry[int]{}).PkgPath()
)

// Schema returns the JSON schema of zone files. Editors use it to validate
// and complete zone documents.
func Schema() *jsonschema.Schema {
	s := newSchemaReflector().reflect(reflect.TypeOf(Document{}))
	s.Version = jsonschema.Version
	s.ID = "https://github.com/lawnchairsociety/dungeongen/zone.schema.json"
	s.Title = "Dungeon zone"
	s.Description = "A zone: its floor count and the ordered zone steps that build each floor."
	s.Required = []string{"id", "steps"}
	return s
}

// schemaReflector reflects the plain structs and maps the types whose YAML
// form is custom: ranges, priorities, range and spawn tables, and the lists
// tagged by a "type" key.
type schemaReflector struct {
	r jsonschema.Reflector
}

func newSchemaReflector() *schemaReflector {
	sr := &schemaReflector{}
	sr.r = jsonschema.Reflector{
		FieldNameTag:               "yaml",
		Anonymous:                  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	sr.r.Mapper = sr.mapType
	return sr
}

func (sr *schemaReflector) reflect(t reflect.Type) *jsonschema.Schema {
	s := sr.r.ReflectFromType(t)
	s.Version = ""
	s.Definitions = nil
	return s
}

func (sr *schemaReflector) mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case intRangeType:
		return intRangeSchema()
	case priorityType:
		return prioritySchema()
	case stepSpecType:
		return sr.floorStepSchema()
	case zoneStepsType:
		return &jsonschema.Schema{Type: "array", Items: sr.tagged(ZoneStepTypes(), func(tag string) any {
			s, _ := NewZoneStep(tag)
			return s
		})}
	case conditionsType:
		return &jsonschema.Schema{Type: "array", Items: sr.tagged(mobs.ConditionTypes(), func(tag string) any {
			c, _ := mobs.NewCondition(tag)
			return c
		})}
	case featuresType:
		return &jsonschema.Schema{Type: "array", Items: sr.tagged(mobs.FeatureTypes(), func(tag string) any {
			f, _ := mobs.NewFeature(tag)
			return f
		})}
	}

	if !strings.HasPrefix(t.Name(), "Dict[") && !strings.HasPrefix(t.Name(), "List[") {
		return nil
	}
	switch {
	case t.PkgPath() == rangeindexPkg && strings.HasPrefix(t.Name(), "Dict["):
		return rangeDictSchema(sr.reflect(valueType(t, "Get")))
	case t.PkgPath() == spawnPkg && strings.HasPrefix(t.Name(), "Dict["):
		return spawnDictSchema(sr.reflect(valueType(t, "Pick")))
	case t.PkgPath() == spawnPkg && strings.HasPrefix(t.Name(), "List["):
		return spawnListSchema(sr.reflect(valueType(t, "Pick")))
	}
	return nil
}

// valueType returns the first result type of the named method of *t, which
// is the element type of the generic containers.
func valueType(t reflect.Type, method string) reflect.Type {
	m, ok := reflect.PointerTo(t).MethodByName(method)
	if !ok {
		panic("zone: schema: " + t.String() + " has no method " + method)
	}
	return m.Type.Out(0)
}

// tagged returns a oneOf over the variants of a "type"-keyed list.
func (sr *schemaReflector) tagged(tags []string, zero func(tag string) any) *jsonschema.Schema {
	out := &jsonschema.Schema{}
	for _, tag := range tags {
		out.OneOf = append(out.OneOf, sr.variant(tag, zero(tag), nil))
	}
	return out
}

func (sr *schemaReflector) floorStepSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{}
	for _, tag := range FloorStepTypes() {
		step, _ := NewFloorStep(tag)
		out.OneOf = append(out.OneOf, sr.variant(tag, step, prioritySchema()))
	}
	return out
}

// variant reflects v and prepends the "type" key, and "priority" when
// priority is set.
func (sr *schemaReflector) variant(tag string, v any, priority *jsonschema.Schema) *jsonschema.Schema {
	body := sr.reflect(reflect.TypeOf(v))

	props := jsonschema.NewProperties()
	props.Set("type", &jsonschema.Schema{Type: "string", Const: tag})
	body.Required = append([]string{"type"}, body.Required...)
	if priority != nil {
		props.Set("priority", priority)
		body.Required = append(body.Required, "priority")
	}
	if body.Properties != nil {
		for pair := body.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if _, exists := props.Get(pair.Key); !exists {
				props.Set(pair.Key, pair.Value)
			}
		}
	}
	body.Type = "object"
	body.Properties = props
	body.Title = tag
	return body
}

func intRangeSchema() *jsonschema.Schema {
	two := uint64(2)
	return &jsonschema.Schema{
		Description: "n for [n, n+1), or [min, max) as a two element list",
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "array", Items: &jsonschema.Schema{Type: "integer"}, MinItems: &two, MaxItems: &two},
		},
	}
}

func prioritySchema() *jsonschema.Schema {
	one := uint64(1)
	return &jsonschema.Schema{
		Description: "step priority: 2, \"2.1\" or [2, 1]; lower runs first",
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Pattern: `^-?\d+(\.-?\d+)*$`},
			{Type: "array", Items: &jsonschema.Schema{Type: "integer"}, MinItems: &one},
		},
	}
}

func rangeDictSchema(value *jsonschema.Schema) *jsonschema.Schema {
	entry := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties(), Required: []string{"range", "value"}}
	entry.Properties.Set("range", intRangeSchema())
	entry.Properties.Set("value", value)
	return &jsonschema.Schema{
		Type:        "array",
		Description: "floor ranges; a later entry replaces the overlapped part of earlier ones",
		Items:       entry,
	}
}

func spawnListSchema(value *jsonschema.Schema) *jsonschema.Schema {
	entry := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties(), Required: []string{"value", "weight"}}
	entry.Properties.Set("value", value)
	entry.Properties.Set("weight", &jsonschema.Schema{Type: "integer", Minimum: "0"})
	return &jsonschema.Schema{Type: "array", Items: entry}
}

func spawnDictSchema(value *jsonschema.Schema) *jsonschema.Schema {
	category := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties(), Required: []string{"spawns"}}
	category.Properties.Set("weight", &jsonschema.Schema{
		Type:        "integer",
		Minimum:     "0",
		Description: "category weight; when a zone table is merged into a floor, categories take the floor's default weight",
	})
	category.Properties.Set("spawns", spawnListSchema(value))
	return &jsonschema.Schema{Type: "object", AdditionalProperties: category}
}
