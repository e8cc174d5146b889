package parse

import "testing"

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestAs_ValidJSON_DecodesStruct(t *testing.T) {
	got, err := As[person](`{"name":"John","age":30}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "John" || got.Age != 30 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_MalformedJSON_RepairsAndDecodes(t *testing.T) {
	got, err := As[person](`{name: 'John', age: 30,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "John" || got.Age != 30 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_CodeFencedJSON_StripsFence(t *testing.T) {
	content := "```json\n{\"name\":\"Ada\",\"age\":36}\n```"
	got, err := As[person](content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ada" || got.Age != 36 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestAs_Primitives(t *testing.T) {
	if got, err := As[string]("hello"); err != nil || got != "hello" {
		t.Errorf("string: got %q, err %v", got, err)
	}
	if got, err := As[int](" 42 "); err != nil || got != 42 {
		t.Errorf("int: got %d, err %v", got, err)
	}
	if got, err := As[bool]("true"); err != nil || !got {
		t.Errorf("bool: got %v, err %v", got, err)
	}
	if got, err := As[float64]("3.5"); err != nil || got != 3.5 {
		t.Errorf("float: got %v, err %v", got, err)
	}
}

func TestAs_PrimitiveParseFailure_ReturnsError(t *testing.T) {
	if _, err := As[int]("not a number"); err == nil {
		t.Error("expected error for non-numeric int content")
	}
}

func TestAs_Slice_Decodes(t *testing.T) {
	got, err := As[[]string](`["a", "b"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestStripCodeFence_NoFence_Unchanged(t *testing.T) {
	if got := StripCodeFence(`{"a":1}`); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestStripCodeFence_FenceWithoutLanguage(t *testing.T) {
	if got := StripCodeFence("```\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}
