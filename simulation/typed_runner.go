package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/signalnine/darwinggp/gosim/cardengine"
	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/genome"
	"github.com/signalnine/darwinggp/gosim/mcts"
)

// TypedGameJob represents a simulation job for typed genomes.
type TypedGameJob struct {
	SimID int
	Seed  uint64
}

// RunBatchTyped simulates multiple games with a typed genome and AI configuration.
// This is the new entry point for the pure Go evolution system.
// NOTE: This is the serial version. Use RunBatchTypedParallel for parallel execution.
func RunBatchTyped(g *genome.GameGenome, numGames int, aiType AIPlayerType, mctsIterations int, seed uint64) AggregatedStats {
	results := make([]GameResult, numGames)
	rng := rand.New(rand.NewSource(int64(seed)))

	for i := 0; i < numGames; i++ {
		gameSeed := rng.Uint64()
		results[i] = RunSingleGameTyped(g, aiType, mctsIterations, gameSeed)
	}

	return aggregateResults(results)
}

// RunBatchTypedParallel simulates multiple games in parallel using typed genomes.
// This achieves significant speedup on multi-core systems.
func RunBatchTypedParallel(g *genome.GameGenome, numGames int, aiType AIPlayerType, mctsIterations int, seed uint64) AggregatedStats {
	numWorkers := runtime.NumCPU()
	return RunBatchTypedParallelN(g, numGames, aiType, mctsIterations, seed, numWorkers)
}

// RunBatchTypedParallelN simulates multiple games in parallel with a specified number of workers.
func RunBatchTypedParallelN(g *genome.GameGenome, numGames int, aiType AIPlayerType, mctsIterations int, seed uint64, numWorkers int) AggregatedStats {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	jobs := make(chan TypedGameJob, numGames)
	results := make(chan GameResult, numGames)

	var wg sync.WaitGroup

	// Start workers
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go typedWorker(&wg, jobs, results, g, aiType, mctsIterations)
	}

	// Generate deterministic seeds
	rng := rand.New(rand.NewSource(int64(seed)))

	// Queue all simulation jobs
	for i := 0; i < numGames; i++ {
		gameSeed := rng.Uint64()
		jobs <- TypedGameJob{
			SimID: i,
			Seed:  gameSeed,
		}
	}
	close(jobs)

	// Wait for all workers to complete, then close results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect and aggregate results
	allResults := make([]GameResult, 0, numGames)
	for result := range results {
		allResults = append(allResults, result)
	}

	return aggregateResults(allResults)
}

// typedWorker processes typed simulation jobs from the jobs channel.
func typedWorker(wg *sync.WaitGroup, jobs <-chan TypedGameJob, results chan<- GameResult, g *genome.GameGenome, aiType AIPlayerType, mctsIterations int) {
	defer wg.Done()

	for job := range jobs {
		result := RunSingleGameTyped(g, aiType, mctsIterations, job.Seed)
		results <- result
	}
}

// GameTimeout is the maximum duration for a single game (prevents infinite loops)
const GameTimeout = 100 * time.Millisecond

// RunSingleGameTyped plays one complete game using a typed genome.
func RunSingleGameTyped(g *genome.GameGenome, aiType AIPlayerType, mctsIterations int, seed uint64) GameResult {
	start := time.Now()
	var metrics GameMetrics
	simRng := rand.New(rand.NewSource(int64(seed)))

	// Initialize game state
	state := cardengine.GetState()
	defer cardengine.PutState(state)

	// Setup deck and shuffle
	setupDeck(state, seed)

	// Read setup from typed genome
	cardsPerPlayer := g.Setup.CardsPerPlayer
	if cardsPerPlayer <= 0 {
		cardsPerPlayer = 26 // Default for War
	}

	initialDiscardCount := g.Setup.DealToTableau
	startingChips := g.Setup.StartingChips

	numPlayers := genome.PlayerCountOf(g)

	state.NumPlayers = uint8(numPlayers)
	state.CardsPerPlayer = cardsPerPlayer

	// Set tableau mode from typed genome
	state.TableauMode = uint8(g.TurnStructure.TableauMode)
	state.SequenceDirection = uint8(g.TurnStructure.SequenceDirection)

	// Initialize teams if configured
	if g.Teams != nil && g.Teams.Enabled && len(g.Teams.Teams) > 0 {
		teams := make([][]int, len(g.Teams.Teams))
		for i, team := range g.Teams.Teams {
			teams[i] = make([]int, len(team))
			copy(teams[i], team)
		}
		state.InitializeTeams(teams)
	}

	// Deal cards to each player
	for i := 0; i < cardsPerPlayer; i++ {
		for p := 0; p < numPlayers; p++ {
			state.DrawCard(uint8(p), cardengine.LocationDeck)
		}
	}

	// Deal initial cards to discard/tableau
	if initialDiscardCount > 0 && len(state.Deck) >= initialDiscardCount {
		// Initialize tableau pile if needed for TableauMode games
		if state.TableauMode != 0 && len(state.Tableau) == 0 {
			state.Tableau = make([][]cardengine.Card, 1)
			state.Tableau[0] = make([]cardengine.Card, 0, initialDiscardCount)
		}
		for i := 0; i < initialDiscardCount; i++ {
			if len(state.Deck) > 0 {
				card := state.Deck[len(state.Deck)-1]
				state.Deck = state.Deck[:len(state.Deck)-1]
				if state.TableauMode != 0 {
					state.Tableau[0] = append(state.Tableau[0], card)
				} else {
					state.Discard = append(state.Discard, card)
				}
			}
		}
	}

	// Initialize chips if this genome uses betting
	if startingChips > 0 {
		state.InitializeChips(startingChips)
	}

	// Initialize tension tracking
	detector := cardengine.ScoreLeaderDetector{}
	tensionMetrics := cardengine.NewTensionMetrics(int(state.NumPlayers))

	// Game loop with turn limit protection
	maxTurns := uint32(g.TurnStructure.MaxTurns)
	if maxTurns == 0 {
		maxTurns = 1000 // Default
	}

	for state.TurnNumber < maxTurns {
		// Check timeout to prevent infinite loops from bad genomes
		if time.Since(start) > GameTimeout {
			tensionMetrics.Finalize(-1)
			return GameResult{
				WinnerID:    -1,
				WinningTeam: -1,
				TurnCount:   state.TurnNumber,
				DurationNs:  uint64(time.Since(start).Nanoseconds()),
				Error:       "timeout",
				Metrics:     metrics,
			}
		}

		// Check win conditions
		winner := genome.CheckWinConditionsTyped(state, g)
		if winner >= 0 {
			tensionMetrics.Finalize(int(winner))
			metrics.LeadChanges = uint32(tensionMetrics.LeadChanges)
			metrics.DecisiveTurnPct = tensionMetrics.DecisiveTurnPct()
			metrics.ClosestMargin = tensionMetrics.ClosestMargin
			metrics.WinnerWasTrailing = tensionMetrics.WinnerWasTrailing
			return GameResult{
				WinnerID:    winner,
				WinningTeam: state.WinningTeam,
				TurnCount:   state.TurnNumber,
				DurationNs:  uint64(time.Since(start).Nanoseconds()),
				Metrics:     metrics,
			}
		}

		// Generate legal moves using typed interpreter
		moves := genome.GenerateLegalMovesTyped(state, g)

		// Check if this is a betting phase
		if hasBettingMoves(moves) {
			bettingPhase := findBettingPhase(g)
			if bettingPhase != nil {
				err := runBettingRoundTyped(state, g, bettingPhase, aiType, &metrics, tensionMetrics, detector)
				if err != "" {
					tensionMetrics.Finalize(-1)
					metrics.LeadChanges = uint32(tensionMetrics.LeadChanges)
					metrics.DecisiveTurnPct = tensionMetrics.DecisiveTurnPct()
					metrics.ClosestMargin = tensionMetrics.ClosestMargin
					metrics.WinnerWasTrailing = tensionMetrics.WinnerWasTrailing
					return GameResult{
						WinnerID:    -1,
						WinningTeam: -1,
						TurnCount:   state.TurnNumber,
						DurationNs:  uint64(time.Since(start).Nanoseconds()),
						Error:       err,
						Metrics:     metrics,
					}
				}

				state.BettingComplete = true

				// Resolve showdown after betting
				winners := cardengine.ResolveShowdown(state)
				if len(winners) == 1 {
					cardengine.AwardPot(state, winners)
					metrics.FoldWins++
				} else if len(winners) > 1 {
					winner := cardengine.FindBestPokerWinner(state, int(state.NumPlayers))
					if winner >= 0 {
						cardengine.AwardPot(state, []int{int(winner)})
						metrics.ShowdownWins++
					}
				}

				state.ResetHand()
				continue
			}
		}

		// Check if this is a bidding phase
		if hasBiddingMoves(moves) {
			aiTypes := make([]AIPlayerType, state.NumPlayers)
			for i := range aiTypes {
				aiTypes[i] = aiType
			}
			runBiddingRoundTyped(state, g, aiTypes)
			continue
		}

		if len(moves) == 0 {
			tensionMetrics.Finalize(-1)
			metrics.LeadChanges = uint32(tensionMetrics.LeadChanges)
			metrics.DecisiveTurnPct = tensionMetrics.DecisiveTurnPct()
			metrics.ClosestMargin = tensionMetrics.ClosestMargin
			metrics.WinnerWasTrailing = tensionMetrics.WinnerWasTrailing
			return GameResult{
				WinnerID:    -1,
				WinningTeam: -1,
				TurnCount:   state.TurnNumber,
				DurationNs:  uint64(time.Since(start).Nanoseconds()),
				Error:       "no legal moves",
				Metrics:     metrics,
			}
		}

		// Phase 1 instrumentation
		metrics.TotalDecisions++
		metrics.TotalValidMoves += uint64(len(moves))
		metrics.TotalHandSize += uint64(len(state.Players[state.CurrentPlayer].Hand))
		if len(moves) == 1 {
			metrics.ForcedDecisions++
		}

		// Select and apply move
		var move *cardengine.LegalMove

		if len(moves) == 1 {
			move = &moves[0]
		} else {
			switch aiType {
			case RandomAI:
				move = &moves[rand.Intn(len(moves))]
			case GreedyAI:
				move = selectGreedyMoveTyped(state, g, moves)
			case MCTS100AI, MCTS500AI, MCTS1000AI, MCTS2000AI:
				move = selectMCTSMoveTyped(state, g, moves, mctsIterations, simRng)
			default:
				move = &moves[0]
			}
		}

		if move == nil {
			tensionMetrics.Finalize(-1)
			metrics.LeadChanges = uint32(tensionMetrics.LeadChanges)
			metrics.DecisiveTurnPct = tensionMetrics.DecisiveTurnPct()
			metrics.ClosestMargin = tensionMetrics.ClosestMargin
			metrics.WinnerWasTrailing = tensionMetrics.WinnerWasTrailing
			return GameResult{
				WinnerID:    -1,
				WinningTeam: -1,
				TurnCount:   state.TurnNumber,
				DurationNs:  uint64(time.Since(start).Nanoseconds()),
				Error:       "AI returned nil move",
				Metrics:     metrics,
			}
		}

		// Instrumentation
		metrics.TotalActions++
		if isInteractionTyped(state, move, g) {
			metrics.TotalInteractions++
		}

		genome.ApplyMoveTyped(state, *move, g)

		// Update tension tracking
		tensionMetrics.Update(state, detector)
	}

	// Max turns reached - draw
	tensionMetrics.Finalize(-1)
	metrics.LeadChanges = uint32(tensionMetrics.LeadChanges)
	metrics.DecisiveTurnPct = tensionMetrics.DecisiveTurnPct()
	metrics.ClosestMargin = tensionMetrics.ClosestMargin
	metrics.WinnerWasTrailing = tensionMetrics.WinnerWasTrailing
	return GameResult{
		WinnerID:    -1,
		WinningTeam: -1,
		TurnCount:   state.TurnNumber,
		DurationNs:  uint64(time.Since(start).Nanoseconds()),
		Metrics:     metrics,
	}
}

// findBettingPhase returns the first BettingPhase in the genome, or nil.
func findBettingPhase(g *genome.GameGenome) *genome.BettingPhase {
	for _, phase := range g.TurnStructure.Phases {
		if bp, ok := phase.(*genome.BettingPhase); ok {
			return bp
		}
	}
	return nil
}

// findBiddingPhase returns the first BiddingPhase in the genome, or nil.
func findBiddingPhase(g *genome.GameGenome) *genome.BiddingPhase {
	for _, phase := range g.TurnStructure.Phases {
		if bp, ok := phase.(*genome.BiddingPhase); ok {
			return bp
		}
	}
	return nil
}

// hasBettingMoves checks if any moves are betting actions, encoded by
// genome.GenerateLegalMovesTyped as CardIndex -10-action (see
// applyBettingMove in genome/apply.go).
func hasBettingMoves(moves []cardengine.LegalMove) bool {
	for _, m := range moves {
		if m.CardIndex <= -10 && m.CardIndex > -10-int(cardengine.BettingFold)-1 {
			return true
		}
	}
	return false
}

// hasBiddingMoves checks if any moves are bids, encoded by
// genome.GenerateLegalMovesTyped as CardIndex MoveBidOffset-value (see
// appendBiddingMoves in genome/interpreter.go).
func hasBiddingMoves(moves []cardengine.LegalMove) bool {
	for _, m := range moves {
		if m.CardIndex <= cardengine.MoveBidOffset {
			return true
		}
	}
	return false
}

// anyNeedsToAct reports whether any player in needsToAct still has a
// pending betting action this round.
func anyNeedsToAct(needsToAct []bool) bool {
	for _, need := range needsToAct {
		if need {
			return true
		}
	}
	return false
}

// runBettingRoundTyped executes a betting round using typed genome.
func runBettingRoundTyped(state *cardengine.GameState, g *genome.GameGenome, bettingPhase *genome.BettingPhase, aiType AIPlayerType, metrics *GameMetrics, tensionMetrics *cardengine.TensionMetrics, detector cardengine.LeaderDetector) string {
	// Convert to engine type for compatibility
	engineBettingPhase := &cardengine.BettingPhaseData{
		MinBet:    bettingPhase.MinBet,
		MaxRaises: bettingPhase.MaxRaises,
	}

	// Track who needs to act
	needsToAct := make([]bool, state.NumPlayers)
	for i := 0; i < int(state.NumPlayers); i++ {
		p := &state.Players[i]
		needsToAct[i] = !p.HasFolded && !p.IsAllIn && p.Chips > 0
	}

	currentPlayer := state.BettingStartPlayer % int(state.NumPlayers)
	maxActions := int(state.NumPlayers) * (bettingPhase.MaxRaises + 2) * 2

	for actionCount := 0; actionCount < maxActions; actionCount++ {
		if cardengine.CountActivePlayers(state) <= 1 {
			break
		}
		if cardengine.CountActingPlayers(state) == 0 {
			break
		}
		if !anyNeedsToAct(needsToAct) && cardengine.AllBetsMatched(state) {
			break
		}

		startSearch := currentPlayer
		for !needsToAct[currentPlayer] {
			currentPlayer = (currentPlayer + 1) % int(state.NumPlayers)
			if currentPlayer == startSearch {
				break
			}
		}
		if !needsToAct[currentPlayer] {
			break
		}

		moves := cardengine.GenerateBettingMoves(state, engineBettingPhase, currentPlayer)
		if len(moves) == 0 {
			needsToAct[currentPlayer] = false
			currentPlayer = (currentPlayer + 1) % int(state.NumPlayers)
			continue
		}

		metrics.TotalDecisions++
		metrics.TotalValidMoves += uint64(len(moves))
		if len(moves) == 1 {
			metrics.ForcedDecisions++
		}

		var action cardengine.BettingAction
		switch aiType {
		case GreedyAI:
			handStrength := cardengine.EvaluateHandStrength(state.Players[currentPlayer].Hand)
			action = cardengine.SelectGreedyBettingAction(state, moves, handStrength)
		default:
			action = cardengine.SelectRandomBettingAction(moves, rand.Intn)
		}

		handStrength := cardengine.EvaluateHandStrength(state.Players[currentPlayer].Hand)
		if action == cardengine.BettingBet || action == cardengine.BettingRaise || action == cardengine.BettingAllIn {
			metrics.TotalBets++
			if handStrength < 0.3 {
				metrics.BettingBluffs++
			}
		}
		if action == cardengine.BettingAllIn {
			metrics.AllInCount++
		}

		oldCurrentBet := state.CurrentBet
		cardengine.ApplyBettingAction(state, engineBettingPhase, currentPlayer, action)
		metrics.TotalActions++
		metrics.TotalInteractions++

		if tensionMetrics != nil && detector != nil {
			tensionMetrics.Update(state, detector)
		}

		if state.CurrentBet > oldCurrentBet {
			for i := 0; i < int(state.NumPlayers); i++ {
				p := &state.Players[i]
				if !p.HasFolded && !p.IsAllIn && p.Chips > 0 && i != currentPlayer {
					needsToAct[i] = true
				}
			}
		}

		needsToAct[currentPlayer] = false
		currentPlayer = (currentPlayer + 1) % int(state.NumPlayers)
		state.TurnNumber++
	}

	return ""
}

// runBiddingRoundTyped executes a bidding round using typed genome.
func runBiddingRoundTyped(state *cardengine.GameState, g *genome.GameGenome, aiTypes []AIPlayerType) {
	biddingPhase := findBiddingPhase(g)
	if biddingPhase == nil {
		return
	}

	// Convert to engine type
	engineBiddingPhase := cardengine.BiddingPhase{
		MinBid:   biddingPhase.MinBid,
		MaxBid:   biddingPhase.MaxBid,
		AllowNil: biddingPhase.AllowNil,
	}

	// Reset bidding state
	state.BiddingComplete = false
	for i := 0; i < int(state.NumPlayers); i++ {
		state.Players[i].CurrentBid = -1
		state.Players[i].IsNilBid = false
	}

	startPlayer := int(state.CurrentPlayer)
	for i := 0; i < int(state.NumPlayers); i++ {
		playerIdx := (startPlayer + i) % int(state.NumPlayers)

		var bid cardengine.BidMove
		aiType := aiTypes[playerIdx]
		switch aiType {
		case GreedyAI:
			bid = selectGreedyBid(state, engineBiddingPhase, playerIdx)
		default:
			handSize := len(state.Players[playerIdx].Hand)
			bidMoves := cardengine.GenerateBidMoves(engineBiddingPhase, handSize)
			if len(bidMoves) > 0 {
				bid = bidMoves[rand.Intn(len(bidMoves))]
			} else {
				bid = cardengine.BidMove{Value: 1, IsNil: false}
			}
		}

		cardengine.ApplyBid(state, uint8(playerIdx), bid)
		state.TurnNumber++
	}
}

// selectGreedyBid bids the value in phase's range closest to what hand
// strength times hand size would support, skipping Nil bids (Nil is a
// deliberate sandbag, not something a greedy heuristic should reach for).
func selectGreedyBid(state *cardengine.GameState, phase cardengine.BiddingPhase, playerIdx int) cardengine.BidMove {
	hand := state.Players[playerIdx].Hand
	moves := cardengine.GenerateBidMoves(phase, len(hand))
	if len(moves) == 0 {
		return cardengine.BidMove{Value: 1}
	}

	target := int(cardengine.EvaluateHandStrength(hand) * float64(len(hand)))
	best := moves[0]
	bestDiff := abs(best.Value - target)
	for _, m := range moves[1:] {
		if m.IsNil {
			continue
		}
		if diff := abs(m.Value - target); diff < bestDiff {
			bestDiff = diff
			best = m
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// selectGreedyMoveTyped picks the move that maximizes immediate score.
func selectGreedyMoveTyped(state *cardengine.GameState, g *genome.GameGenome, moves []cardengine.LegalMove) *cardengine.LegalMove {
	bestMove := &moves[0]
	bestScore := scoreMove(state, &moves[0])

	for i := 1; i < len(moves); i++ {
		score := scoreMove(state, &moves[i])
		if score > bestScore {
			bestScore = score
			bestMove = &moves[i]
		}
	}

	return bestMove
}

// isInteractionTyped determines if a move affects opponent state.
func isInteractionTyped(state *cardengine.GameState, move *cardengine.LegalMove, g *genome.GameGenome) bool {
	if move.PhaseIndex >= len(g.TurnStructure.Phases) {
		return false
	}

	phase := g.TurnStructure.Phases[move.PhaseIndex]

	switch phase.(type) {
	case *genome.DrawPhase:
		if move.TargetLoc == cardengine.LocationOpponentHand {
			return true
		}
	case *genome.PlayPhase:
		if move.TargetLoc == cardengine.LocationTableau {
			return true
		}
	case *genome.TrickPhase:
		return true
	case *genome.ClaimPhase:
		return true
	case *genome.BettingPhase:
		return true
	}

	return false
}

// selectMCTSMoveTyped runs mctsIterations of tree search over g's
// engine.Interpreter wiring (genome.Interpreter) from state's current
// player's perspective, then maps the resulting engine.Turn back to
// whichever entry of moves it corresponds to.
func selectMCTSMoveTyped(state *cardengine.GameState, g *genome.GameGenome, moves []cardengine.LegalMove, mctsIterations int, rng *rand.Rand) *cardengine.LegalMove {
	interp := genome.NewInterpreter(g, int(state.NumPlayers), 0)
	role := engine.Role("p" + strconv.Itoa(int(state.CurrentPlayer)))
	root := engine.State(genome.EncodeState(state))

	eval := mcts.LightPlayoutEvaluator{
		Role:                role,
		FinalStateEvaluator: mcts.GoalNormalizedUtilityEvaluator{},
		Rng:                 rng,
	}
	tree := mcts.NewTree(root, interp, eval, rng, role)

	ctx := context.Background()
	for i := 0; i < mctsIterations; i++ {
		if err := tree.Step(ctx); err != nil {
			break
		}
	}

	turn, ok := tree.BestMove()
	if !ok {
		return &moves[rng.Intn(len(moves))]
	}
	if best := moveFromTurn(moves, turn, role); best != nil {
		return best
	}
	return &moves[rng.Intn(len(moves))]
}

// moveFromTurn finds the entry of moves that turn's role played, matching
// on the same "phase:card:target" encoding genome.Interpreter uses for its
// opaque engine.Move values (see genome's move_codec.go).
func moveFromTurn(moves []cardengine.LegalMove, turn engine.Turn, role engine.Role) *cardengine.LegalMove {
	played, ok := turn.MoveOf(role)
	if !ok {
		return nil
	}
	for i := range moves {
		m := moves[i]
		if fmt.Sprintf("%d:%d:%d", m.PhaseIndex, m.CardIndex, int(m.TargetLoc)) == string(played) {
			return &moves[i]
		}
	}
	return nil
}
