// internal/game/uno/uno.go
package uno

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/models"
)

const (
	initialHandSize = 7
	minPlayers      = 2
	maxPlayers      = 10
)

// Metadata describes UNO for registry catalogs.
var Metadata = game.Metadata{
	Name:        "uno",
	DisplayName: "UNO",
	MinPlayers:  minPlayers,
	MaxPlayers:  maxPlayers,
	Description: "Classic card matching game",
}

// Register adds the UNO factory to a registry.
func Register(r *game.Registry) {
	r.Register(Metadata.Name, Metadata, func(roomID string, players []*models.Player) (game.Game, error) {
		return New(roomID, players)
	})
}

// Seat pairs a borrowed room player with the game-owned per-player state.
// Seat order is the room's join order and defines turn order. The Player
// pointer stays valid across reconnects because the room rebinds connection
// ids in place rather than replacing the record.
type Seat struct {
	Player    *models.Player
	Hand      []models.Card
	CalledUno bool
}

// Game is the UNO rule engine for a single game instance. The multiset of
// Deck, DiscardPile and all hands is constant at 108 cards for the lifetime
// of the instance. Deck draws from the tail; the discard pile's top is its
// last element. Callers serialize access per room; the engine holds no lock.
type Game struct {
	Seats              []*Seat
	Deck               []models.Card
	DiscardPile        []models.Card
	CurrentPlayerIndex int
	Direction          int // +1 or -1
	CurrentColor       models.CardColor
	DrawnThisTurn      bool

	roomID string
	rng    *rand.Rand
}

// PlayResult reports the outcome of a successful play. Winner is the
// player's name when the play emptied their hand; in that case no effect was
// applied and the turn did not advance, and the caller is expected to tear
// the game down.
type PlayResult struct {
	Card   models.Card `json:"card"`
	Winner string      `json:"winner,omitempty"`
}

// New deals a fresh game for the given players. Fails with
// game.ErrInvalidPlayerCount outside the 2..10 bound.
func New(roomID string, players []*models.Player) (*Game, error) {
	if len(players) < minPlayers {
		return nil, fmt.Errorf("%w: UNO requires at least %d players (got %d)",
			game.ErrInvalidPlayerCount, minPlayers, len(players))
	}
	if len(players) > maxPlayers {
		return nil, fmt.Errorf("%w: UNO supports at most %d players (got %d)",
			game.ErrInvalidPlayerCount, maxPlayers, len(players))
	}

	g := &Game{
		Seats:     make([]*Seat, 0, len(players)),
		Direction: 1,
		roomID:    roomID,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, p := range players {
		g.Seats = append(g.Seats, &Seat{Player: p, Hand: make([]models.Card, 0, initialHandSize)})
	}

	g.Deck = newDeck()
	shuffle(g.Deck, g.rng)
	g.deal()
	return g, nil
}

// deal hands out the initial cards and reveals the first discard. A revealed
// wild is tucked back under the deck and the next card is drawn instead, so
// no card is ever lost: wild cards never start a game.
func (g *Game) deal() {
	for _, s := range g.Seats {
		for i := 0; i < initialHandSize; i++ {
			s.Hand = append(s.Hand, g.popDeck())
		}
	}

	first := g.popDeck()
	for first.IsWild() {
		g.Deck = append([]models.Card{first}, g.Deck...)
		first = g.popDeck()
	}
	g.DiscardPile = append(g.DiscardPile, first)
	g.applyFirstCard(first)
}

// applyFirstCard folds the revealed card's effect into the initial turn
// state: skip advances the starting player, reverse in a 2-player game acts
// as skip, reverse otherwise flips direction and starts from the last player
// (one reversal has already happened), and draw2 loads the second player
// with two cards and skips them.
func (g *Game) applyFirstCard(first models.Card) {
	g.CurrentColor = first.Color

	switch first.Value {
	case models.ValueSkip:
		g.CurrentPlayerIndex = 1 % len(g.Seats)
	case models.ValueReverse:
		if len(g.Seats) == 2 {
			g.CurrentPlayerIndex = 1
		} else {
			g.Direction = -1
			g.CurrentPlayerIndex = len(g.Seats) - 1
		}
	case models.ValueDraw2:
		g.forceDraw(g.Seats[1], 2)
		g.CurrentPlayerIndex = 2 % len(g.Seats)
	}
}

// popDeck removes and returns the top (tail) card. Callers guarantee the
// deck is non-empty.
func (g *Game) popDeck() models.Card {
	c := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return c
}

func (g *Game) seatIndex(playerID string) int {
	for i, s := range g.Seats {
		if s.Player.ID == playerID {
			return i
		}
	}
	return -1
}

// DrawCard draws one card into the player's hand. Drawing does not advance
// the turn: the player may still play the drawn card or pass.
func (g *Game) DrawCard(playerID string) (models.Card, error) {
	idx := g.seatIndex(playerID)
	if idx == -1 {
		return models.Card{}, game.ErrPlayerNotFound
	}
	seat := g.Seats[idx]
	if seat.Player.Disconnected {
		return models.Card{}, fmt.Errorf("%w: player is disconnected", game.ErrInvalidTurn)
	}
	if idx != g.CurrentPlayerIndex {
		return models.Card{}, game.ErrInvalidTurn
	}
	if g.DrawnThisTurn {
		return models.Card{}, fmt.Errorf("%w: already drew a card this turn", game.ErrInvalidMove)
	}

	if len(g.Deck) == 0 {
		g.reshuffleDiscardPile()
	}
	if len(g.Deck) == 0 {
		// Unreachable with a full 108-card set, but guarded anyway.
		return models.Card{}, fmt.Errorf("%w: no cards available", game.ErrInvalidMove)
	}

	card := g.popDeck()
	seat.Hand = append(seat.Hand, card)
	seat.CalledUno = false
	g.DrawnThisTurn = true
	return card, nil
}

// PassTurn forfeits the rest of the turn. Only legal after drawing: drawing
// a card is the sole way to give up a turn.
func (g *Game) PassTurn(playerID string) error {
	idx := g.seatIndex(playerID)
	if idx == -1 {
		return game.ErrPlayerNotFound
	}
	if g.Seats[idx].Player.Disconnected {
		return fmt.Errorf("%w: player is disconnected", game.ErrInvalidTurn)
	}
	if idx != g.CurrentPlayerIndex {
		return game.ErrInvalidTurn
	}
	if !g.DrawnThisTurn {
		return fmt.Errorf("%w: must draw a card before passing", game.ErrInvalidMove)
	}

	g.DrawnThisTurn = false
	g.nextPlayer()
	return nil
}

// CanPlay reports whether card is currently legal: wild-type cards always
// are; otherwise the card must match the current color or the top discard's
// face value. Value matches count across colors (any "7" on any "7") - the
// classic rule variant this engine implements.
func (g *Game) CanPlay(card models.Card) bool {
	if card.IsWild() {
		return true
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	return card.Color == g.CurrentColor || card.Value == top.Value
}

// PlayCard plays the card at cardIndex from the player's hand. Wild-type
// cards require chosenColor to be one of the four playable colors; if it is
// absent or invalid the move is rolled back in full and fails with
// game.ErrInvalidMove - plays are atomic. An emptied hand reports a win with
// no further state mutation.
func (g *Game) PlayCard(playerID string, cardIndex int, chosenColor models.CardColor) (PlayResult, error) {
	idx := g.seatIndex(playerID)
	if idx == -1 {
		return PlayResult{}, game.ErrPlayerNotFound
	}
	seat := g.Seats[idx]
	if seat.Player.Disconnected {
		return PlayResult{}, fmt.Errorf("%w: player is disconnected", game.ErrInvalidTurn)
	}
	if idx != g.CurrentPlayerIndex {
		return PlayResult{}, game.ErrInvalidTurn
	}
	if cardIndex < 0 || cardIndex >= len(seat.Hand) {
		return PlayResult{}, fmt.Errorf("%w: invalid card index", game.ErrInvalidMove)
	}

	card := seat.Hand[cardIndex]
	if !g.CanPlay(card) {
		return PlayResult{}, fmt.Errorf("%w: cannot play this card", game.ErrInvalidMove)
	}

	seat.Hand = append(seat.Hand[:cardIndex], seat.Hand[cardIndex+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)

	if card.IsWild() {
		if !models.IsPlayableColor(chosenColor) {
			// Roll back: restore the card at its original index and undo
			// the discard push.
			seat.Hand = append(seat.Hand[:cardIndex], append([]models.Card{card}, seat.Hand[cardIndex:]...)...)
			g.DiscardPile = g.DiscardPile[:len(g.DiscardPile)-1]
			return PlayResult{}, fmt.Errorf("%w: must choose a valid color for a wild card", game.ErrInvalidMove)
		}
		g.CurrentColor = chosenColor
	} else {
		g.CurrentColor = card.Color
	}

	if len(seat.Hand) == 0 {
		// Win: no effect, no turn advance; caller tears the game down.
		return PlayResult{Card: card, Winner: seat.Player.Name}, nil
	}

	// An UNO call only stands while holding exactly one card.
	if len(seat.Hand) > 1 {
		seat.CalledUno = false
	}

	g.applyCardEffect(card)
	return PlayResult{Card: card}, nil
}

// applyCardEffect advances turn state for a non-winning play.
func (g *Game) applyCardEffect(card models.Card) {
	g.DrawnThisTurn = false

	switch card.Value {
	case models.ValueSkip:
		g.nextPlayer()
		g.nextPlayer()
	case models.ValueReverse:
		if len(g.Seats) == 2 {
			// Two-player reverse acts as a skip.
			g.nextPlayer()
			g.nextPlayer()
		} else {
			g.Direction = -g.Direction
			g.nextPlayer()
		}
	case models.ValueDraw2:
		g.nextPlayer()
		g.forceDraw(g.Seats[g.CurrentPlayerIndex], 2)
		g.nextPlayer()
	case models.ValueWild4:
		g.nextPlayer()
		g.forceDraw(g.Seats[g.CurrentPlayerIndex], 4)
		g.nextPlayer()
	default:
		g.nextPlayer()
	}
}

func (g *Game) nextPlayer() {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + g.Direction + len(g.Seats)) % len(g.Seats)
}

// forceDraw moves up to n cards from the deck into the seat's hand,
// reshuffling the discard pile as needed. Stops short only if both piles
// are exhausted.
func (g *Game) forceDraw(seat *Seat, n int) {
	for i := 0; i < n; i++ {
		if len(g.Deck) == 0 {
			g.reshuffleDiscardPile()
		}
		if len(g.Deck) == 0 {
			return
		}
		seat.Hand = append(seat.Hand, g.popDeck())
	}
	seat.CalledUno = false
}

// CallUno marks the player as having called UNO. Only legal while holding
// exactly one card.
func (g *Game) CallUno(playerID string) error {
	idx := g.seatIndex(playerID)
	if idx == -1 {
		return game.ErrPlayerNotFound
	}
	seat := g.Seats[idx]
	if len(seat.Hand) != 1 {
		return fmt.Errorf("%w: can only call UNO with one card", game.ErrInvalidMove)
	}
	seat.CalledUno = true
	return nil
}

// CatchUnoFailure challenges a player who failed to call UNO. The challenge
// succeeds only against an un-called single-card hand: the target draws two
// penalty cards and a report message is returned.
func (g *Game) CatchUnoFailure(targetID string) (string, error) {
	idx := g.seatIndex(targetID)
	if idx == -1 {
		return "", fmt.Errorf("%w: target player not found", game.ErrPlayerNotFound)
	}
	target := g.Seats[idx]
	if len(target.Hand) != 1 || target.CalledUno {
		return "", fmt.Errorf("%w: target either called UNO or has more than one card", game.ErrInvalidMove)
	}

	g.forceDraw(target, 2)
	return fmt.Sprintf("%s caught! Drew 2 cards.", target.Player.Name), nil
}

// reshuffleDiscardPile recycles every discard except the top card back into
// the deck. No-op when there is nothing to reclaim.
func (g *Game) reshuffleDiscardPile() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.Deck = append(g.Deck, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DiscardPile = []models.Card{top}
	shuffle(g.Deck, g.rng)
}

// PlayerState is the per-player slice of the public projection.
type PlayerState struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CardCount    int    `json:"cardCount"`
	CalledUno    bool   `json:"calledUno"`
	Disconnected bool   `json:"disconnected"`
}

// State is the public projection of a game, safe to broadcast to the whole
// room: hands are reduced to counts.
type State struct {
	RoomID             string           `json:"roomId"`
	Players            []PlayerState    `json:"players"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	TopCard            models.Card      `json:"topCard"`
	CurrentColor       models.CardColor `json:"currentColor"`
	Direction          int              `json:"direction"`
	DeckSize           int              `json:"deckSize"`
}

// Snapshot builds the public state view.
func (g *Game) Snapshot() State {
	players := make([]PlayerState, 0, len(g.Seats))
	for _, s := range g.Seats {
		players = append(players, PlayerState{
			ID:           s.Player.ID,
			Name:         s.Player.Name,
			CardCount:    len(s.Hand),
			CalledUno:    s.CalledUno,
			Disconnected: s.Player.Disconnected,
		})
	}

	color := g.CurrentColor
	if color == "" {
		color = models.ColorWild
	}

	return State{
		RoomID:             g.roomID,
		Players:            players,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		TopCard:            g.DiscardPile[len(g.DiscardPile)-1],
		CurrentColor:       color,
		Direction:          g.Direction,
		DeckSize:           len(g.Deck),
	}
}

// RoomID implements game.Game.
func (g *Game) RoomID() string { return g.roomID }

// State implements game.Game.
func (g *Game) State() interface{} { return g.Snapshot() }

// PlayerPrivateState implements game.Game: the requesting player's hand, or
// an empty hand for unknown players.
func (g *Game) PlayerPrivateState(playerID string) interface{} {
	return g.Hand(playerID)
}

// Hand returns a copy of the player's hand. Unknown players get an empty
// (non-nil) slice.
func (g *Game) Hand(playerID string) []models.Card {
	idx := g.seatIndex(playerID)
	if idx == -1 {
		return []models.Card{}
	}
	hand := make([]models.Card, len(g.Seats[idx].Hand))
	copy(hand, g.Seats[idx].Hand)
	return hand
}
