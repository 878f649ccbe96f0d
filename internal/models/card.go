// internal/models/card.go
package models

// CardColor is one of the four playable colors, or "wild" for cards that
// carry no color of their own until played.
type CardColor string

const (
	ColorRed    CardColor = "red"
	ColorBlue   CardColor = "blue"
	ColorGreen  CardColor = "green"
	ColorYellow CardColor = "yellow"
	ColorWild   CardColor = "wild"
)

// PlayableColors lists the colors a wild card may bind to. Order matters for
// stable catalog output; "wild" itself is never a valid choice.
var PlayableColors = []CardColor{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// IsPlayableColor reports whether c is one of the four non-wild colors.
func IsPlayableColor(c CardColor) bool {
	for _, pc := range PlayableColors {
		if c == pc {
			return true
		}
	}
	return false
}

// CardType classifies a card's behavior.
type CardType string

const (
	TypeNumber CardType = "number"
	TypeAction CardType = "action"
	TypeWild   CardType = "wild"
)

// CardValue is the face value: "0".."9" for number cards, or one of the
// action/wild values below.
type CardValue string

const (
	ValueSkip    CardValue = "skip"
	ValueReverse CardValue = "reverse"
	ValueDraw2   CardValue = "draw2"
	ValueWild    CardValue = "wild"
	ValueWild4   CardValue = "wild4"
)

// Card is an immutable card value. Cards are compared and copied by value;
// nothing in the engine mutates a Card after construction.
type Card struct {
	Color CardColor `json:"color"`
	Value CardValue `json:"value"`
	Type  CardType  `json:"type"`
}

// IsWild reports whether the card is a wild-type card (wild or wild4).
func (c Card) IsWild() bool {
	return c.Type == TypeWild
}
