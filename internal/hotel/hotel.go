// Package hotel loads and validates the static hotel fact document.
//
// The document is loaded once at process start and treated as immutable
// configuration afterwards, which makes it safe for unsynchronized concurrent
// reads. A missing required section is a startup-time configuration error,
// never a per-request failure.
package hotel

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

//go:embed data/hotel_info.json
var defaultData []byte

// ErrMissingSection indicates a required top-level section is absent from the
// fact document.
var ErrMissingSection = errors.New("missing required section in hotel data")

// Identity holds the hotel's core facts.
type Identity struct {
	Name      string `json:"name"`
	Checkin   string `json:"checkin"`
	Checkout  string `json:"checkout"`
	Breakfast string `json:"breakfast"`
	Wifi      string `json:"wifi"`
	Parking   string `json:"parking"`
	Pets      string `json:"pets"`
}

// Room describes one bookable room type.
type Room struct {
	Type              string `json:"type"`
	Capacity          int    `json:"capacity"`
	BreakfastIncluded bool   `json:"breakfast_included"`
}

// Amenity describes one facility in more detail than the services list.
type Amenity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Accessibility lists the accessible-facility flags.
type Accessibility struct {
	Elevator        bool `json:"elevator"`
	AccessibleRooms bool `json:"accessible_rooms"`
	Ramp            bool `json:"ramp"`
}

// Recommendations groups nearby places and restaurants.
type Recommendations struct {
	Places      []string `json:"places"`
	Restaurants []string `json:"restaurants"`
}

// Contact holds the human-handoff contact details.
type Contact struct {
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	HumanMessage string `json:"human_message"`
}

// Facts is the full static hotel fact document.
//
// Required sections: hotel, services, rooms, recommendations, contact.
// Optional sections: hours, amenities, accessibility, general_activities.
type Facts struct {
	Hotel             Identity            `json:"hotel"`
	Hours             map[string]string   `json:"hours"`
	Services          []string            `json:"services"`
	Amenities         []Amenity           `json:"amenities"`
	Accessibility     *Accessibility      `json:"accessibility"`
	Rooms             []Room              `json:"rooms"`
	Recommendations   Recommendations     `json:"recommendations"`
	GeneralActivities map[string][]string `json:"general_activities"`
	Contact           Contact             `json:"contact"`
}

// Load reads the fact document from path, or the embedded default document
// when path is empty. The document is validated; a missing required section
// returns an error wrapping ErrMissingSection.
func Load(path string) (*Facts, error) {
	data := defaultData
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("reading hotel data %s: %w", path, err)
		}
		data = b
	}

	return Parse(data)
}

// Parse decodes and validates a fact document.
func Parse(data []byte) (*Facts, error) {
	// Decode into a raw map first so absent sections can be told apart from
	// zero values.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hotel data: %w", err)
	}

	for _, section := range []string{"hotel", "services", "rooms", "recommendations", "contact"} {
		if _, ok := raw[section]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSection, section)
		}
	}

	var facts Facts
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("parsing hotel data: %w", err)
	}

	if facts.Hotel.Name == "" {
		return nil, fmt.Errorf("%w: hotel.name is empty", ErrMissingSection)
	}

	return &facts, nil
}

// Section is one indexable knowledge chunk derived from the fact document.
// IDs are stable so re-indexing upserts instead of duplicating.
type Section struct {
	ID   string
	Text string
}

// Sections flattens the fact document into topical knowledge chunks for the
// vector index. Each chunk is self-contained so a single retrieval hit is
// enough to answer a question about that topic.
func (f *Facts) Sections() []Section {
	var sections []Section

	var b strings.Builder
	fmt.Fprintf(&b, "Hotel: %s\n", f.Hotel.Name)
	fmt.Fprintf(&b, "Check-in: desde las %s\n", f.Hotel.Checkin)
	fmt.Fprintf(&b, "Check-out: hasta las %s\n", f.Hotel.Checkout)
	fmt.Fprintf(&b, "Desayuno: %s\n", f.Hotel.Breakfast)
	fmt.Fprintf(&b, "Wifi: %s\n", f.Hotel.Wifi)
	fmt.Fprintf(&b, "Parking: %s\n", f.Hotel.Parking)
	fmt.Fprintf(&b, "Mascotas: %s\n", f.Hotel.Pets)
	for _, service := range slices.Sorted(maps.Keys(f.Hours)) {
		fmt.Fprintf(&b, "Horario de %s: %s\n", service, f.Hours[service])
	}
	sections = append(sections, Section{ID: "hotel:identidad", Text: b.String()})

	b.Reset()
	b.WriteString("Servicios del hotel:\n")
	for _, s := range f.Services {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	for _, a := range f.Amenities {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Description)
	}
	if acc := f.Accessibility; acc != nil {
		b.WriteString("Accesibilidad:\n")
		if acc.Elevator {
			b.WriteString("- Ascensor disponible\n")
		}
		if acc.AccessibleRooms {
			b.WriteString("- Habitaciones adaptadas\n")
		}
		if acc.Ramp {
			b.WriteString("- Rampa de acceso\n")
		}
	}
	sections = append(sections, Section{ID: "hotel:servicios", Text: b.String()})

	b.Reset()
	b.WriteString("Habitaciones disponibles:\n")
	for _, r := range f.Rooms {
		fmt.Fprintf(&b, "- %s (%d personas, %s)\n", r.Type, r.Capacity, breakfastLabel(r.BreakfastIncluded))
	}
	sections = append(sections, Section{ID: "hotel:habitaciones", Text: b.String()})

	b.Reset()
	b.WriteString("Recomendaciones cerca del hotel:\n")
	for _, p := range f.Recommendations.Places {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("Para comer o cenar:\n")
	for _, r := range f.Recommendations.Restaurants {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	sections = append(sections, Section{ID: "hotel:recomendaciones", Text: b.String()})

	if len(f.GeneralActivities) > 0 {
		b.Reset()
		b.WriteString("Actividades generales cercanas:\n")
		if rainy, ok := f.GeneralActivities["rainy_day"]; ok {
			b.WriteString("En días de lluvia:\n")
			for _, a := range rainy {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
		if kids, ok := f.GeneralActivities["with_kids"]; ok {
			b.WriteString("Actividades para niños:\n")
			for _, a := range kids {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
		sections = append(sections, Section{ID: "hotel:actividades", Text: b.String()})
	}

	b.Reset()
	b.WriteString("Contacto con recepción:\n")
	if f.Contact.Phone != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", f.Contact.Phone)
	}
	if f.Contact.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", f.Contact.Email)
	}
	if reception, ok := f.Hours["reception"]; ok {
		fmt.Fprintf(&b, "Horario de recepción: %s\n", reception)
	}
	sections = append(sections, Section{ID: "hotel:contacto", Text: b.String()})

	return sections
}

func breakfastLabel(included bool) string {
	if included {
		return "con desayuno"
	}
	return "sin desayuno"
}
