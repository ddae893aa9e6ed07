package cache

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Adyime/DadapperDaze-sub001/pkg/testsupport"
)

type keyScenario struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cases       []keyCase `json:"cases"`
}

type keyCase struct {
	Namespace   string `json:"namespace"`
	Args        []any  `json:"args"`
	ExpectedKey string `json:"expectedKey"`
}

type keyFixtures struct {
	Scenarios []keyScenario `json:"scenarios"`
}

func loadKeyFixtures(t *testing.T) keyFixtures {
	t.Helper()

	var fixtures keyFixtures
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("key_scenarios.json"), &fixtures)
	return fixtures
}

func key(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_Fixtures(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	for _, scenario := range loadKeyFixtures(t).Scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			for _, tc := range scenario.Cases {
				// JSON numbers decode as float64; whole numbers still print without a fraction.
				if got := serializer.SerializeKey(tc.Namespace, tc.Args...); got != tc.ExpectedKey {
					t.Errorf("SerializeKey(%q, %v) = %q, want %q", tc.Namespace, tc.Args, got, tc.ExpectedKey)
				}
			}
		})
	}
}

func TestDefaultKeySerializer_Values(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	type filter struct {
		CategoryID int64
		InStock    bool
		note       string
	}

	id := int64(42)

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{"no args", "category", nil, key("category", "all")},
		{"single int", "product", []any{42}, key("product", "42")},
		{"basic types", "product", []any{1, "hello", true, 3.14}, key("product", "1", "hello", "true", "3.14")},
		{"separator inside value", "category", []any{"a:b"}, key("category", "a:b")},
		{"nil interface", "product", []any{nil}, key("product", "nil")},
		{"nil pointer", "product", []any{(*int)(nil)}, key("product", "nil")},
		{"non-nil pointer", "product", []any{&id}, key("product", "42")},
		{"nil slice", "product", []any{([]int)(nil)}, key("product", "slice:nil")},
		{"empty slice", "product", []any{[]int{}}, key("product", "slice[0]:{}")},
		{"int slice", "product", []any{[]int{1, 2, 3}}, key("product", "slice[3]:{1,2,3}")},
		{"nested slice", "product", []any{[][]int{{1, 2}, {3}}}, key("product", "slice[2]:{slice[2]:{1,2},slice[1]:{3}}")},
		{"array", "product", []any{[2]string{"a", "b"}}, key("product", "array[2]:{a,b}")},
		{"nil map", "product", []any{(map[string]int)(nil)}, key("product", "map:nil")},
		{"map sorted", "product", []any{map[string]int{"stock": 1, "price": 10}}, key("product", "map[2]:{price=10,stock=1}")},
		{"struct exported fields", "product", []any{filter{CategoryID: 3, InStock: true, note: "x"}}, key("product", "struct:{CategoryID:3,InStock:true}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serializer.SerializeKey(tt.namespace, tt.args...); got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_StringerUsesString(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	id := uuid.MustParse("6f1c1a4e-3f55-4b9e-9a8e-1d2c3b4a5f60")

	got := serializer.SerializeKey("user", id)
	if want := key("user", id.String()); got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}
}

func TestDefaultKeySerializer_FunctionsAndChannels(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	criteria := func() {}
	key1 := serializer.SerializeKey("product", criteria)
	key2 := serializer.SerializeKey("product", criteria)
	if key1 != key2 {
		t.Errorf("function serialization should be stable: %v != %v", key1, key2)
	}
	if !strings.HasPrefix(key1, key("product", "func")+":") {
		t.Errorf("expected func: prefix, got %v", key1)
	}

	ch := make(chan int)
	if got := serializer.SerializeKey("product", ch); !strings.HasPrefix(got, key("product", "chan")+":") {
		t.Errorf("expected chan: prefix, got %v", got)
	}
}

func TestDefaultKeySerializer_HashesLongKeys(t *testing.T) {
	serializer := NewKeySerializerWithMaxLength(32)

	short := serializer.SerializeKey("product", "1")
	if short != "product:1" {
		t.Fatalf("short key should be untouched, got %v", short)
	}

	long := strings.Repeat("x", 64)
	got := serializer.SerializeKey("product", long)
	if !strings.HasPrefix(got, "product:h:") {
		t.Fatalf("long key should keep its namespace, got %v", got)
	}
	if len(got) > 32 {
		t.Fatalf("hashed key is still too long: %d", len(got))
	}
	if again := serializer.SerializeKey("product", long); again != got {
		t.Errorf("hashed key should be stable: %v != %v", got, again)
	}
	if other := serializer.SerializeKey("product", long+"y"); other == got {
		t.Error("different args should hash differently")
	}
	if !MatchesPrefix(got, "product") {
		t.Error("hashed key should still match its namespace prefix")
	}

	unbounded := NewKeySerializerWithMaxLength(0)
	if got := unbounded.SerializeKey("product", long); got != "product:"+long {
		t.Errorf("max length 0 should disable hashing, got %v", got)
	}
}

func TestDefaultKeySerializer_Stability(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	args := []any{1, "hello", []int{1, 2, 3}, map[string]int{"a": 1, "b": 2}}

	if key1, key2 := serializer.SerializeKey("product", args...), serializer.SerializeKey("product", args...); key1 != key2 {
		t.Errorf("key serialization should be stable: %v != %v", key1, key2)
	}
}

func BenchmarkDefaultKeySerializer(b *testing.B) {
	serializer := NewDefaultKeySerializer()
	args := []any{1, "benchmark", []int{1, 2, 3}, map[string]int{"test": 1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("product", args...)
	}
}
