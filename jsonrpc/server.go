package jsonrpc

import (
	"context"
	"net"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"ledgerd/block"
	"ledgerd/errors"
	"ledgerd/jsonx"
	"ledgerd/logx"
	"ledgerd/ratelimit"
	"ledgerd/snapshot"
	"ledgerd/transaction"
)

// Engine is the ledger surface the RPC layer drives. All invariants live
// behind it; this layer only translates requests and failures.
type Engine interface {
	SubmitTransaction(tx *transaction.Transaction) (int, error)
	MinePendingTransactions(rewardAddress string) (*block.Block, error)
	Latest() (*block.Block, error)
	BlockAt(index uint64) (*block.Block, error)
	Balance(address string) int64
	IsValid() bool
	Pending() []*transaction.Transaction
	State() *snapshot.State
}

// --- Error mapping ---

// jrpc2 application error codes per ledger error class
var rpcCodes = map[errors.LedgerErrorCode]int{
	errors.ErrCodeInvalidRequest:     -32001,
	errors.ErrCodeInvalidTransaction: -32001,
	errors.ErrCodeInvalidAddress:     -32001,
	errors.ErrCodeInvalidAmount:      -32001,
	errors.ErrCodeInvalidDifficulty:  -32001,
	errors.ErrCodeMiningExhausted:    -32002,
	errors.ErrCodePoolFull:           -32003,
	errors.ErrCodeBlockNotFound:      -32004,
	errors.ErrCodeChainEmpty:         -32005,
	errors.ErrCodePersistence:        -32006,
}

func toJRPC2Error(err error) error {
	var ledgerError errors.LedgerError
	if uerr := jsonx.Unmarshal([]byte(err.Error()), &ledgerError); uerr == nil && ledgerError.Code != "" {
		code, ok := rpcCodes[ledgerError.Code]
		if !ok {
			code = -32000
		}
		return jrpc2.Errorf(jrpc2.Code(code), "%s", ledgerError.Message).WithData(ledgerError)
	}
	return jrpc2.Errorf(jrpc2.Code(-32000), "%s", err.Error())
}

// --- Params/Results ---

type submitTxParams struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Signature string `json:"signature,omitempty"`
}

type submitTxResponse struct {
	Ok       bool   `json:"ok"`
	TxHash   string `json:"tx_hash"`
	PoolSize int    `json:"pool_size"`
}

type mineParams struct {
	RewardAddress string `json:"reward_address"`
}

type mineResponse struct {
	Index   uint64 `json:"index"`
	Hash    string `json:"hash"`
	Nonce   uint64 `json:"nonce"`
	TxCount int    `json:"tx_count"`
}

type getBlockParams struct {
	Index uint64 `json:"index"`
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	Height uint64 `json:"height"`
}

type balanceParams struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type pendingResponse struct {
	TotalCount int                        `json:"total_count"`
	PendingTxs []*transaction.Transaction `json:"pending_txs"`
}

// --- Server ---

type Server struct {
	addr    string
	engine  Engine
	limiter *ratelimit.RateLimiter
	httpSrv *http.Server
}

func NewServer(addr string, engine Engine, limiter *ratelimit.RateLimiter) *Server {
	return &Server{
		addr:    addr,
		engine:  engine,
		limiter: limiter,
	}
}

// Start serves the bridge in the background. Stop shuts it down.
func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(clientKey(r)) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited"}`))
			return
		}
		jh.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle("/", h)
	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", "rpc server stopped: ", err)
		}
	}()
	logx.Info("JSONRPC", "rpc listening on ", s.addr)
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"tx.submit": handler.New(func(ctx context.Context, p submitTxParams) (*submitTxResponse, error) {
			tx := transaction.New(p.From, p.To, p.Amount, p.Timestamp)
			tx.Signature = p.Signature
			size, err := s.engine.SubmitTransaction(tx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &submitTxResponse{Ok: true, TxHash: tx.Hash(), PoolSize: size}, nil
		}),
		"tx.getpending": handler.New(func(ctx context.Context) (*pendingResponse, error) {
			pending := s.engine.Pending()
			return &pendingResponse{TotalCount: len(pending), PendingTxs: pending}, nil
		}),
		"miner.mine": handler.New(func(ctx context.Context, p mineParams) (*mineResponse, error) {
			b, err := s.engine.MinePendingTransactions(p.RewardAddress)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &mineResponse{Index: b.Index, Hash: b.Hash, Nonce: b.Nonce, TxCount: len(b.Data.Transactions)}, nil
		}),
		"chain.getlatest": handler.New(func(ctx context.Context) (*block.Block, error) {
			b, err := s.engine.Latest()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return b, nil
		}),
		"chain.getblock": handler.New(func(ctx context.Context, p getBlockParams) (*block.Block, error) {
			b, err := s.engine.BlockAt(p.Index)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return b, nil
		}),
		"chain.validate": handler.New(func(ctx context.Context) (*validateResponse, error) {
			latest, err := s.engine.Latest()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &validateResponse{Valid: s.engine.IsValid(), Height: latest.Index}, nil
		}),
		"chain.getstate": handler.New(func(ctx context.Context) (*snapshot.State, error) {
			return s.engine.State(), nil
		}),
		"account.getbalance": handler.New(func(ctx context.Context, p balanceParams) (*balanceResponse, error) {
			if p.Address == "" {
				return nil, toJRPC2Error(errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
			}
			return &balanceResponse{Address: p.Address, Balance: s.engine.Balance(p.Address)}, nil
		}),
	}
}
