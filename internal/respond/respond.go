// Package respond renders deterministic canned answers from the static hotel
// fact document.
//
// Every method is a pure function of the loaded facts: no randomness, no side
// effects, no per-request failure mode. The fact document is validated at
// load time (see package hotel), so templates can assume required sections
// exist.
package respond

import (
	"fmt"
	"strings"

	"github.com/costaazul/concierge/internal/hotel"
	"github.com/costaazul/concierge/internal/intent"
)

// Responder renders intent-specific templated answers.
type Responder struct {
	facts *hotel.Facts
}

// New creates a Responder over an already validated fact document.
func New(facts *hotel.Facts) *Responder {
	return &Responder{facts: facts}
}

// For returns the canned answer for the given intent. Fallback gets the
// generic "I didn't understand" text; callers that have a generative pipeline
// should dispatch Fallback there instead.
func (r *Responder) For(in intent.Intent) string {
	switch in {
	case intent.Greeting:
		return r.Greeting()
	case intent.Horarios:
		return r.Horarios()
	case intent.Servicios:
		return r.Servicios()
	case intent.Habitaciones:
		return r.Habitaciones()
	case intent.Recomendaciones:
		return r.Recomendaciones()
	case intent.Humano:
		return r.Humano()
	case intent.Fallback:
		return r.Fallback()
	default:
		return r.Fallback()
	}
}

// Greeting welcomes the guest by hotel name.
func (r *Responder) Greeting() string {
	return fmt.Sprintf("Hola 👋 Soy el asistente virtual del %s 🏖️\n¿En qué puedo ayudarte?",
		r.facts.Hotel.Name)
}

// Horarios lists check-in, check-out, breakfast and service hours.
func (r *Responder) Horarios() string {
	h := r.facts.Hotel

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Check-in: desde las %s\n", h.Checkin)
	fmt.Fprintf(&b, "📅 Check-out: hasta las %s\n\n", h.Checkout)
	fmt.Fprintf(&b, "🍳 Desayuno: %s\n", h.Breakfast)

	if len(r.facts.Hours) > 0 {
		b.WriteString("\n🕐 Horarios de servicios:\n")
		if spa, ok := r.facts.Hours["spa"]; ok {
			fmt.Fprintf(&b, "• Spa: %s\n", spa)
		}
		if pool, ok := r.facts.Hours["pool"]; ok {
			fmt.Fprintf(&b, "• Piscina: %s\n", pool)
		}
		if reception, ok := r.facts.Hours["reception"]; ok {
			fmt.Fprintf(&b, "• Recepción: %s\n", reception)
		}
	}

	return b.String()
}

// Servicios lists the main services plus amenity and accessibility details.
func (r *Responder) Servicios() string {
	var b strings.Builder
	b.WriteString("Nuestros servicios principales:\n")
	for _, s := range r.facts.Services {
		fmt.Fprintf(&b, "✔️ %s\n", s)
	}
	fmt.Fprintf(&b, "\n📶 Wifi: %s\n", r.facts.Hotel.Wifi)
	fmt.Fprintf(&b, "🚗 Parking: %s\n", r.facts.Hotel.Parking)

	if len(r.facts.Amenities) > 0 {
		b.WriteString("\n🏊 Detalles de nuestros servicios:\n")
		for _, a := range r.facts.Amenities {
			fmt.Fprintf(&b, "• %s: %s\n", a.Name, a.Description)
		}
	}

	if acc := r.facts.Accessibility; acc != nil {
		b.WriteString("\n♿ Accesibilidad:\n")
		if acc.Elevator {
			b.WriteString("• Ascensor disponible\n")
		}
		if acc.AccessibleRooms {
			b.WriteString("• Habitaciones adaptadas\n")
		}
		if acc.Ramp {
			b.WriteString("• Rampa de acceso\n")
		}
	}

	return b.String()
}

// Habitaciones lists the room types with capacity and breakfast info.
func (r *Responder) Habitaciones() string {
	lines := make([]string, 0, len(r.facts.Rooms))
	for _, room := range r.facts.Rooms {
		breakfast := "sin desayuno"
		if room.BreakfastIncluded {
			breakfast = "con desayuno"
		}
		lines = append(lines, fmt.Sprintf("🛏️ %s – %d personas (%s)", room.Type, room.Capacity, breakfast))
	}
	return "Disponemos de:\n" + strings.Join(lines, "\n")
}

// Recomendaciones lists nearby places and restaurants.
func (r *Responder) Recomendaciones() string {
	places := make([]string, 0, len(r.facts.Recommendations.Places))
	for _, p := range r.facts.Recommendations.Places {
		places = append(places, "🌴 "+p)
	}
	restaurants := make([]string, 0, len(r.facts.Recommendations.Restaurants))
	for _, rest := range r.facts.Recommendations.Restaurants {
		restaurants = append(restaurants, "🍽️ "+rest)
	}
	return fmt.Sprintf("Cerca del hotel te recomendamos:\n\n%s\n\nPara comer o cenar:\n%s",
		strings.Join(places, "\n"), strings.Join(restaurants, "\n"))
}

// Humano hands the guest off to reception with contact details.
func (r *Responder) Humano() string {
	contact := r.facts.Contact

	var b strings.Builder
	b.WriteString("📞 Te ponemos en contacto con recepción.\n\n")
	if contact.Phone != "" {
		fmt.Fprintf(&b, "📱 Teléfono: %s\n", contact.Phone)
	}
	if contact.Email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", contact.Email)
	}
	if reception, ok := r.facts.Hours["reception"]; ok {
		fmt.Fprintf(&b, "\n🕐 Horario: %s\n", reception)
	}
	if contact.HumanMessage != "" {
		fmt.Fprintf(&b, "\n%s", contact.HumanMessage)
	}

	return b.String()
}

// Fallback tells the guest what the assistant can help with.
func (r *Responder) Fallback() string {
	return "Lo siento 😅, no he entendido tu pregunta.\n\n" +
		"Puedo ayudarte con:\n" +
		"• Servicios del hotel\n" +
		"• Horarios\n" +
		"• Habitaciones\n" +
		"• Recomendaciones\n" +
		"• Hablar con recepción"
}
