package curriculum

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Shape(t *testing.T) {
	g := Default()
	if g.LevelCount() != 4 {
		t.Fatalf("got %d levels, want 4", g.LevelCount())
	}
	l, ok := g.LevelAt(0)
	if !ok || l.ID != 1 {
		t.Fatalf("LevelAt(0) = %+v, %v", l, ok)
	}
	if len(l.Units) != 3 {
		t.Errorf("level 1: got %d units, want 3", len(l.Units))
	}
	placeholder, _ := g.LevelAt(2)
	if len(placeholder.Units) != 0 || placeholder.Teaser == "" {
		t.Errorf("level 3 should be a placeholder with a teaser, got %+v", placeholder)
	}
}

func TestUnit_Lookup(t *testing.T) {
	g := Default()

	u, ok := g.Unit(2)
	if !ok {
		t.Fatal("unit 2 not found")
	}
	if u.RewardPoints() != 20 {
		t.Errorf("unit 2 reward = %d, want 20", u.RewardPoints())
	}

	if _, ok := g.Unit(999); ok {
		t.Error("unit 999 should not exist")
	}
	_, err := g.GetUnit(999)
	if !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("GetUnit(999) err = %v, want ErrUnitNotFound", err)
	}
}

func TestLevelOfUnit(t *testing.T) {
	g := Default()
	l, idx, ok := g.LevelOfUnit(5)
	if !ok {
		t.Fatal("unit 5 not found")
	}
	if l.ID != 2 || idx != 1 {
		t.Errorf("LevelOfUnit(5) = level %d index %d, want level 2 index 1", l.ID, idx)
	}
}

func TestCard_Lookup(t *testing.T) {
	g := Default()
	c, idx, ok := g.Card(1, "u1-c2")
	if !ok {
		t.Fatal("card u1-c2 not found")
	}
	if idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
	if SectionIndex(c, SectionSummary) != 2 {
		t.Errorf("summary index = %d, want 2", SectionIndex(c, SectionSummary))
	}
	if SectionIndex(c, SectionTactile) != -1 {
		t.Error("card has no tactile section")
	}

	if g.HasCard(1, "u2-c1") {
		t.Error("card of unit 2 must not belong to unit 1")
	}
}

func TestUnitQuiz_ConcatenatesCardsInOrder(t *testing.T) {
	g := Default()
	quiz := g.UnitQuiz(1)
	if len(quiz) != 2 {
		t.Fatalf("got %d questions, want 2", len(quiz))
	}
	if len(g.UnitQuiz(999)) != 0 {
		t.Error("unknown unit should have an empty quiz")
	}
}

func TestUnit_NoReward(t *testing.T) {
	u := Unit{ID: 1}
	if u.RewardPoints() != 0 {
		t.Errorf("RewardPoints() = %d, want 0", u.RewardPoints())
	}
}

func TestParse_RejectsSchemaViolation(t *testing.T) {
	_, err := Parse([]byte(`{"levels":[{"level_id":"one","title":"x","units":[]}]}`))
	if err == nil {
		t.Fatal("expected schema error, got nil")
	}
}

func TestParse_RejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
levels:
  - level_id: 1
    title: First
    units:
      - unit_id: 10
        title: Only unit
        reward: {badge: b, points: 7, message: m}
        cards:
          - card_id: a
            title: A
            sections:
              - {id: sharii, title: S}
`
	g, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	u, ok := g.Unit(10)
	if !ok {
		t.Fatal("unit 10 not found")
	}
	if u.RewardPoints() != 7 || len(u.Cards) != 1 {
		t.Errorf("unexpected unit: %+v", u)
	}
}

func TestLoadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.json")
	if err := os.WriteFile(path, seedJSON, 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if g.LevelCount() != Default().LevelCount() {
		t.Errorf("level count = %d, want %d", g.LevelCount(), Default().LevelCount())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMotivationalQuestion_IsCorrect(t *testing.T) {
	q := MotivationalQuestion{Options: []string{"a", "b"}, CorrectOption: 1}
	if !q.IsCorrect(1) || q.IsCorrect(0) {
		t.Error("IsCorrect mismatch")
	}
}
