package engine

// finishRound evaluates the contract and applies the round to the team
// scores. When the declaring team's captured counters reach the bid, both
// teams bank what they earned; otherwise the declarers are set back the
// full bid amount and only the defenders bank their counters.
// The declarer's team is checked for the win first, so if both teams
// cross the threshold in the same round the declarers take the game.
func (g *GameState) finishRound() {
	r := &g.Round

	var teamPoints [NumTeams]int16
	for t := 0; t < NumTeams; t++ {
		teamPoints[t] = r.Piles[t].Points()
	}

	declTeam := g.DeclarerTeam()
	oppTeam := 1 - declTeam
	bid := r.Bid.Amount
	made := teamPoints[declTeam] >= bid

	if made {
		g.Scores[declTeam] += teamPoints[declTeam]
	} else {
		g.Scores[declTeam] -= bid
	}
	g.Scores[oppTeam] += teamPoints[oppTeam]

	g.LastRound = RoundResult{
		TeamPoints:   teamPoints,
		DeclarerTeam: declTeam,
		Bid:          bid,
		MadeContract: made,
		Scores:       g.Scores,
	}

	switch {
	case g.Scores[declTeam] >= g.Rules.ScoreToWin:
		g.Winner = int8(declTeam)
		g.Phase = PhaseGameOver
	case g.Scores[oppTeam] >= g.Rules.ScoreToWin:
		g.Winner = int8(oppTeam)
		g.Phase = PhaseGameOver
	default:
		g.Phase = PhaseRoundOver
	}
}

// DeckPoints returns the counter total of the configured deck. Useful as
// a conservation check: the two piles plus the nest always sum to this.
func DeckPoints(r Rules) int16 {
	var sum int16
	for _, c := range NewDeck(r) {
		sum += c.Points()
	}
	return sum
}
