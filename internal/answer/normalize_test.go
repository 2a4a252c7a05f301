package answer

import (
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hola", Normalize("hola"))
	assert.Equal(t, "", Normalize(""))

	// Idempotent on strings: normalizing an already normalized value is a
	// no-op.
	once := Normalize("respuesta final")
	assert.Equal(t, once, Normalize(once))
}

func TestNormalizeNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Normalize(nil))

	var resp *ai.ModelResponse
	assert.Equal(t, "", Normalize(resp))

	var msg *ai.Message
	assert.Equal(t, "", Normalize(msg))
}

func TestNormalizeModelResponse(t *testing.T) {
	t.Parallel()

	resp := &ai.ModelResponse{
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart("El spa abre a las 10:00.")},
		},
	}
	assert.Equal(t, "El spa abre a las 10:00.", Normalize(resp))

	assert.Equal(t, "", Normalize(&ai.ModelResponse{}))
}

func TestNormalizeMessageParts(t *testing.T) {
	t.Parallel()

	msg := &ai.Message{
		Role: ai.RoleModel,
		Content: []*ai.Part{
			ai.NewTextPart("primera parte"),
			ai.NewTextPart("segunda parte"),
		},
	}
	assert.Equal(t, "primera parte\nsegunda parte", Normalize(msg))
}

func TestNormalizeSkipsNonTextParts(t *testing.T) {
	t.Parallel()

	parts := []*ai.Part{
		ai.NewTextPart("texto visible"),
		ai.NewMediaPart("image/png", "data:..."),
		nil,
		ai.NewTextPart(""),
	}
	assert.Equal(t, "texto visible", Normalize(parts))
}

func TestNormalizeSequences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb", Normalize([]string{"a", "", "b"}))
	assert.Equal(t, "a\nb", Normalize([]any{"a", "", "b"}))

	// Nested sequences flatten recursively.
	assert.Equal(t, "a\nb\nc", Normalize([]any{"a", []string{"b", "c"}}))
}

func TestNormalizeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"content key", map[string]any{"content": "valor"}, "valor"},
		{"text key", map[string]any{"text": "valor"}, "valor"},
		{"message key", map[string]any{"message": "valor"}, "valor"},
		{
			"content preferred over text",
			map[string]any{"text": "no", "content": "sí"},
			"sí",
		},
		{
			"nested content",
			map[string]any{"content": []any{"a", "b"}},
			"a\nb",
		},
		{
			"no preferred key serializes whole mapping",
			map[string]any{"other": "x"},
			`{"other":"x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeFallbackStringify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", Normalize(42))
	assert.Equal(t, "true", Normalize(true))
}
