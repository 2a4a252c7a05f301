// Package intent classifies inbound guest messages into a closed set of
// intents using ordered keyword rules.
//
// Classification is deliberately simple: case-folded substring membership,
// first matching rule wins. Rule order matters because some keywords could
// belong to several categories (e.g. "desayuno" appears in schedule questions
// and in room descriptions). There is no scoring and no confidence value;
// anything unmatched is Fallback, which routes to the generative pipeline.
package intent

import "strings"

// Intent is the classification label assigned to an inbound message.
type Intent int

// The closed intent set. Order of declaration has no meaning; dispatch order
// lives in the rule table below.
const (
	Greeting Intent = iota
	Horarios
	Servicios
	Habitaciones
	Recomendaciones
	Humano
	Fallback
)

// String returns the wire name of the intent, as exposed in API responses.
func (i Intent) String() string {
	switch i {
	case Greeting:
		return "greeting"
	case Horarios:
		return "horarios"
	case Servicios:
		return "servicios"
	case Habitaciones:
		return "habitaciones"
	case Recomendaciones:
		return "recomendaciones"
	case Humano:
		return "humano"
	case Fallback:
		return "fallback"
	default:
		return "fallback"
	}
}

// rule maps a keyword set to an intent. Rules are evaluated in order and the
// first match wins.
type rule struct {
	intent   Intent
	keywords []string
}

var rules = []rule{
	{Greeting, []string{"hola", "buenas", "hello"}},
	{Horarios, []string{"check-in", "checkout", "horario", "desayuno"}},
	{Servicios, []string{"wifi", "parking", "piscina", "spa", "gimnasio"}},
	{Habitaciones, []string{"habitacion", "habitaciones", "suite", "precio"}},
	{Recomendaciones, []string{"recomienda", "recomendación", "recomendaciones", "dónde comer", "cenar", "restaurante"}},
	{Humano, []string{"recepcion", "persona", "humano"}},
}

// Detect classifies a raw guest message. It never fails: empty or
// unrecognized input yields Fallback.
func Detect(message string) Intent {
	msg := strings.ToLower(message)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.intent
			}
		}
	}

	return Fallback
}
