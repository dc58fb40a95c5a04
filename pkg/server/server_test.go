package server

import (
	"context"
	"net"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vctt94/cardcounter/pkg/blackjack"
	"github.com/vctt94/cardcounter/pkg/config"
	"github.com/vctt94/cardcounter/pkg/rpc/tablerpc"
	"github.com/vctt94/cardcounter/pkg/suspicion"
)

const human = "alice"

type testEnv struct {
	t      *testing.T
	db     Database
	srv    *Server
	client *tablerpc.TableServiceClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := NewDatabase(":memory:")
	require.NoError(t, err)

	settings := config.Default(t.TempDir())
	settings.Rules.InsuranceAvailable = false
	settings.Table.StepDelay = 0
	settings.Table.ActorSeats = []int{0, 5}

	srv := NewServer(Config{
		Settings:     settings,
		DB:           database,
		NewScheduler: func() blackjack.Scheduler { return blackjack.NewManualScheduler() },
		EventWorkers: 2,
	})

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	tablerpc.RegisterTableServiceServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		gs.Stop()
		srv.Stop()
		database.Close()
	})
	return &testEnv{t: t, db: database, srv: srv, client: tablerpc.NewTableServiceClient(conn)}
}

func (e *testEnv) createAndJoin(ctx context.Context) string {
	e.t.Helper()
	created, err := e.client.CreateTable(ctx, &tablerpc.CreateTableRequest{PlayerID: human, Seed: 42})
	require.NoError(e.t, err)
	resp, err := e.client.JoinTable(ctx, &tablerpc.JoinTableRequest{TableID: created.TableID, PlayerID: human, Name: "Alice"})
	require.NoError(e.t, err)
	require.Equal(e.t, human, resp.State.HumanID)
	return created.TableID
}

// playHand bets, stands on every decision and returns the finished state.
func (e *testEnv) playHand(ctx context.Context, tableID string, bet int64) *tablerpc.StateResponse {
	e.t.Helper()
	resp, err := e.client.PlaceBet(ctx, &tablerpc.BetRequest{TableID: tableID, PlayerID: human, Amount: bet})
	require.NoError(e.t, err)
	for i := 0; i < 20 && resp.State.Round.Phase == blackjack.PhasePlayerTurn; i++ {
		resp, err = e.client.Act(ctx, &tablerpc.ActRequest{TableID: tableID, PlayerID: human, Action: blackjack.ActionStand})
		require.NoError(e.t, err)
	}
	require.Equal(e.t, blackjack.PhaseRoundEnd, resp.State.Round.Phase)
	return resp
}

func TestPlayOverRPC(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tableID := env.createAndJoin(ctx)

	stream, err := env.client.StreamEvents(ctx, &tablerpc.PlayerRequest{TableID: tableID, PlayerID: human})
	require.NoError(t, err)
	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, EventStreamStarted, first.Type)

	resp := env.playHand(ctx, tableID, 20)
	require.NotNil(t, resp.State.Round.LastResult)
	net, staked, played := resp.State.Round.LastResult.NetFor(human)
	require.True(t, played)
	assert.GreaterOrEqual(t, staked, int64(20))

	var sawResult bool
	for !sawResult {
		ev, err := stream.Recv()
		require.NoError(t, err)
		if ev.Type != blackjack.EventRoundResult {
			continue
		}
		var res blackjack.RoundResult
		require.NoError(t, ev.DecodePayload(&res))
		got, _, _ := res.NetFor(human)
		assert.Equal(t, net, got)
		sawResult = true
	}

	left, err := env.client.LeaveTable(ctx, &tablerpc.LeaveTableRequest{TableID: tableID, PlayerID: human})
	require.NoError(t, err)
	assert.Equal(t, 1000+net, left.Chips)
	assert.Equal(t, 1, left.Stats.HandsPlayed)

	balance, err := env.db.GetPlayerBalance(human)
	require.NoError(t, err)
	assert.Equal(t, left.Chips, balance)

	sessions, err := env.db.LoadSessionStats(human)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, tableID, sessions[0].TableID)
	assert.Equal(t, net, sessions[0].Net)
}

func TestRejoinKeepsBankroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tableID := env.createAndJoin(ctx)
	resp := env.playHand(ctx, tableID, 50)
	net, _, _ := resp.State.Round.LastResult.NetFor(human)
	_, err := env.client.LeaveTable(ctx, &tablerpc.LeaveTableRequest{TableID: tableID, PlayerID: human})
	require.NoError(t, err)

	other := env.createAndJoin(ctx)
	state, err := env.client.GetState(ctx, &tablerpc.PlayerRequest{TableID: other, PlayerID: human})
	require.NoError(t, err)
	for _, p := range state.State.Round.Players {
		if p.ID == human {
			assert.Equal(t, 1000+net, p.Chips)
			return
		}
	}
	t.Fatal("human not seated")
}

func TestRPCErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	code := func(err error) codes.Code {
		t.Helper()
		require.Error(t, err)
		return status.Code(err)
	}

	_, err := env.client.GetState(ctx, &tablerpc.PlayerRequest{TableID: "nope"})
	assert.Equal(t, codes.NotFound, code(err))

	_, err = env.client.CreateTable(ctx, &tablerpc.CreateTableRequest{Preset: "nope"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	tableID := env.createAndJoin(ctx)

	_, err = env.client.JoinTable(ctx, &tablerpc.JoinTableRequest{TableID: tableID, PlayerID: human})
	assert.Equal(t, codes.AlreadyExists, code(err))

	_, err = env.client.PlaceBet(ctx, &tablerpc.BetRequest{TableID: tableID, PlayerID: human, Amount: 1})
	assert.Equal(t, codes.InvalidArgument, code(err))

	_, err = env.client.Act(ctx, &tablerpc.ActRequest{TableID: tableID, PlayerID: human, Action: blackjack.ActionHit})
	assert.Equal(t, codes.FailedPrecondition, code(err))

	_, err = env.client.Converse(ctx, &tablerpc.ConverseRequest{TableID: tableID, PlayerID: human, Response: suspicion.Engaged})
	assert.Equal(t, codes.FailedPrecondition, code(err))

	_, err = env.client.PlaceBet(ctx, &tablerpc.BetRequest{TableID: tableID, PlayerID: "bob", Amount: 10})
	assert.Equal(t, codes.NotFound, code(err))
}
