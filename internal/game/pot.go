package game

import (
	"github.com/charmbracelet/log"

	"github.com/cardroom/holdemd/internal/deck"
	"github.com/cardroom/holdemd/internal/poker"
)

// PotResult records the settlement of one pot layer.
type PotResult struct {
	Amount   int
	Eligible []string // contributors who never folded
	Winners  []string // tied top scorers among the eligible
}

// potLayer is a slice of the pot capped by an all-in contribution,
// with a possibly narrower set of eligible winners. Seats index into
// the hand's player list.
type potLayer struct {
	amount   int
	eligible []int
}

// buildLayers decomposes player contributions into pot layers. Each
// pass takes the smallest positive remaining contribution, collects
// it from every player still owing, and forms one layer whose
// eligible winners are the contributors that never folded. Layers are
// produced in formation order, smallest cap first.
func buildLayers(players []*Player) []potLayer {
	remaining := make([]int, len(players))
	for i, p := range players {
		remaining[i] = p.TotalBet
	}

	var layers []potLayer
	for {
		smallest := 0
		for _, r := range remaining {
			if r > 0 && (smallest == 0 || r < smallest) {
				smallest = r
			}
		}
		if smallest == 0 {
			return layers
		}

		layer := potLayer{}
		for i := range remaining {
			if remaining[i] <= 0 {
				continue
			}
			remaining[i] -= smallest
			layer.amount += smallest
			if players[i].Active {
				layer.eligible = append(layer.eligible, i)
			}
		}
		layers = append(layers, layer)
	}
}

// settlePots builds pot layers from contributions, ranks each layer's
// eligible players with the evaluator, and pays the winners. The pot
// splits by integer division; a leftover chip goes to the first
// winner in seat order after the dealer. A layer whose contributors
// all folded has no eligible winners and is not paid out.
//
// TODO: decide where an all-folded layer's chips should go instead of
// dropping them from play.
func settlePots(players []*Player, community []deck.Card, dealer int, logger *log.Logger) []PotResult {
	layers := buildLayers(players)
	results := make([]PotResult, 0, len(layers))

	for _, layer := range layers {
		result := PotResult{Amount: layer.amount}
		for _, seat := range layer.eligible {
			result.Eligible = append(result.Eligible, players[seat].Name)
		}

		if len(layer.eligible) == 0 {
			logger.Warn("pot layer has no eligible winners, chips unawarded", "amount", layer.amount)
			results = append(results, result)
			continue
		}

		winners := layerWinners(players, community, layer.eligible)
		for _, seat := range winners {
			result.Winners = append(result.Winners, players[seat].Name)
		}

		share := layer.amount / len(winners)
		remainder := layer.amount % len(winners)
		for _, seat := range winners {
			players[seat].Chips += share
		}
		if remainder > 0 {
			players[firstAfterDealer(players, winners, dealer)].Chips += remainder
		}

		results = append(results, result)
	}
	return results
}

// layerWinners returns the seats holding the best hand among the
// eligible, in seat order.
func layerWinners(players []*Player, community []deck.Card, eligible []int) []int {
	var best poker.Score
	var winners []int
	for _, seat := range eligible {
		cards := append([]deck.Card{}, players[seat].Hole...)
		cards = append(cards, community...)
		score := poker.Evaluate(cards)
		switch cmp := score.Compare(best); {
		case len(winners) == 0 || cmp > 0:
			best = score
			winners = []int{seat}
		case cmp == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// firstAfterDealer returns the winning seat closest past the dealer,
// used to place the odd chip when a split does not divide evenly.
func firstAfterDealer(players []*Player, winners []int, dealer int) int {
	n := len(players)
	for offset := 1; offset <= n; offset++ {
		seat := (dealer + offset) % n
		for _, w := range winners {
			if w == seat {
				return seat
			}
		}
	}
	return winners[0]
}
