package zone

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/mobs"
)

func TestSchemaCoversEveryTag(t *testing.T) {
	data, err := json.Marshal(Schema())
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	text := string(data)

	var tags []string
	tags = append(tags, ZoneStepTypes()...)
	tags = append(tags, FloorStepTypes()...)
	tags = append(tags, mobs.ConditionTypes()...)
	tags = append(tags, mobs.FeatureTypes()...)
	for _, tag := range tags {
		if !strings.Contains(text, `"const":"`+tag+`"`) {
			t.Errorf("schema has no variant for %q", tag)
		}
	}
}

func TestSchemaFieldNames(t *testing.T) {
	s := Schema()
	if s.Properties == nil {
		t.Fatal("schema has no properties")
	}
	for _, key := range []string{"id", "name", "floors", "width", "height", "steps"} {
		if _, ok := s.Properties.Get(key); !ok {
			t.Errorf("schema is missing %q", key)
		}
	}
	if _, ok := s.Properties.Get("Steps"); ok {
		t.Error("schema uses Go field names instead of yaml keys")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"team_size"`, `"wall_ratio"`, `"level_scale"`, `"spawns"`, `"range"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("schema does not mention %s", key)
		}
	}
	if !strings.Contains(string(data), "categories take the floor's default weight") {
		t.Error("spawn category weight is not described")
	}
}

func TestRegistryConstructors(t *testing.T) {
	for _, tag := range FloorStepTypes() {
		if s, ok := NewFloorStep(tag); !ok || s == nil {
			t.Errorf("NewFloorStep(%q) failed", tag)
		}
	}
	for _, tag := range ZoneStepTypes() {
		if s, ok := NewZoneStep(tag); !ok || s == nil {
			t.Errorf("NewZoneStep(%q) failed", tag)
		}
	}
	if _, ok := NewFloorStep("lava"); ok {
		t.Error("NewFloorStep accepted an unknown tag")
	}
	if _, ok := NewZoneStep("earthquake"); ok {
		t.Error("NewZoneStep accepted an unknown tag")
	}
}
