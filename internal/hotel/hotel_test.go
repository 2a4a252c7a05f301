package hotel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Parallel()

	facts, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Hotel Costa Azul", facts.Hotel.Name)
	assert.Equal(t, "14:00", facts.Hotel.Checkin)
	assert.Equal(t, "12:00", facts.Hotel.Checkout)
	assert.NotEmpty(t, facts.Services)
	assert.NotEmpty(t, facts.Rooms)
	assert.NotEmpty(t, facts.Recommendations.Places)
	assert.NotEmpty(t, facts.Contact.Phone)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hotel.json")
	require.NoError(t, os.WriteFile(path, defaultData, 0o600))

	facts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hotel Costa Azul", facts.Hotel.Name)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestParseMissingSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{
			"missing hotel",
			`{"services": [], "rooms": [], "recommendations": {}, "contact": {}}`,
		},
		{
			"missing services",
			`{"hotel": {"name": "X"}, "rooms": [], "recommendations": {}, "contact": {}}`,
		},
		{
			"missing rooms",
			`{"hotel": {"name": "X"}, "services": [], "recommendations": {}, "contact": {}}`,
		},
		{
			"missing recommendations",
			`{"hotel": {"name": "X"}, "services": [], "rooms": [], "contact": {}}`,
		},
		{
			"missing contact",
			`{"hotel": {"name": "X"}, "services": [], "rooms": [], "recommendations": {}}`,
		},
		{
			"empty hotel name",
			`{"hotel": {"name": ""}, "services": [], "rooms": [], "recommendations": {}, "contact": {}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingSection)
		})
	}
}

func TestParseInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("not json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingSection)
}

func TestParseOptionalSectionsAbsent(t *testing.T) {
	t.Parallel()

	data := `{
		"hotel": {"name": "Minimal", "checkin": "15:00", "checkout": "11:00"},
		"services": ["Wifi"],
		"rooms": [{"type": "Doble", "capacity": 2}],
		"recommendations": {"places": ["Playa"], "restaurants": ["Bar"]},
		"contact": {"phone": "+34 600 000 000"}
	}`

	facts, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Nil(t, facts.Accessibility)
	assert.Empty(t, facts.Hours)
	assert.Empty(t, facts.GeneralActivities)
}

func TestSections(t *testing.T) {
	t.Parallel()

	facts, err := Load("")
	require.NoError(t, err)

	sections := facts.Sections()
	require.NotEmpty(t, sections)

	byID := make(map[string]string, len(sections))
	for _, s := range sections {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Text)
		byID[s.ID] = s.Text
	}

	require.Contains(t, byID, "hotel:identidad")
	require.Contains(t, byID, "hotel:servicios")
	require.Contains(t, byID, "hotel:habitaciones")
	require.Contains(t, byID, "hotel:recomendaciones")
	require.Contains(t, byID, "hotel:actividades")
	require.Contains(t, byID, "hotel:contacto")

	assert.Contains(t, byID["hotel:identidad"], "Check-in: desde las 14:00")
	assert.Contains(t, byID["hotel:identidad"], "Hotel Costa Azul")
	assert.Contains(t, byID["hotel:habitaciones"], "Suite")
	assert.Contains(t, byID["hotel:actividades"], "En días de lluvia:")
	assert.Contains(t, byID["hotel:contacto"], facts.Contact.Phone)
}

func TestSectionsDeterministic(t *testing.T) {
	t.Parallel()

	facts, err := Load("")
	require.NoError(t, err)

	// Hours come from a map; section text must still be stable across calls.
	first := facts.Sections()
	for range 10 {
		assert.Equal(t, first, facts.Sections())
	}
}

func TestSectionsSkipsActivitiesWhenAbsent(t *testing.T) {
	t.Parallel()

	data := `{
		"hotel": {"name": "Minimal"},
		"services": ["Wifi"],
		"rooms": [{"type": "Doble", "capacity": 2}],
		"recommendations": {"places": [], "restaurants": []},
		"contact": {}
	}`

	facts, err := Parse([]byte(data))
	require.NoError(t, err)

	for _, s := range facts.Sections() {
		assert.NotEqual(t, "hotel:actividades", s.ID)
	}
}
