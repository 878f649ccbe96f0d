// internal/game/uno/deck.go
package uno

import (
	"math/rand"
	"strconv"

	"github.com/tablekit/cardtable/internal/models"
)

// deckSize is the full card set: per color one 0, two each of 1-9 and two of
// each action card, plus four wild and four wild4.
const deckSize = 108

// newDeck builds the complete unshuffled card set.
func newDeck() []models.Card {
	deck := make([]models.Card, 0, deckSize)

	for _, color := range models.PlayableColors {
		deck = append(deck, models.Card{Color: color, Value: "0", Type: models.TypeNumber})
		for i := 1; i <= 9; i++ {
			value := models.CardValue(strconv.Itoa(i))
			deck = append(deck,
				models.Card{Color: color, Value: value, Type: models.TypeNumber},
				models.Card{Color: color, Value: value, Type: models.TypeNumber},
			)
		}
	}

	for _, color := range models.PlayableColors {
		for _, action := range []models.CardValue{models.ValueSkip, models.ValueReverse, models.ValueDraw2} {
			deck = append(deck,
				models.Card{Color: color, Value: action, Type: models.TypeAction},
				models.Card{Color: color, Value: action, Type: models.TypeAction},
			)
		}
	}

	for i := 0; i < 4; i++ {
		deck = append(deck,
			models.Card{Color: models.ColorWild, Value: models.ValueWild, Type: models.TypeWild},
			models.Card{Color: models.ColorWild, Value: models.ValueWild4, Type: models.TypeWild},
		)
	}

	return deck
}

// shuffle permutes d in place with a single Fisher-Yates pass.
func shuffle(d []models.Card, rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}
