package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/deploy"
	"github.com/ZilDuck/nft-marketplace/internal/indexer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"
)

type Server struct {
	chain      *chain.Chain
	deployment *deploy.Deployment
	indexer    indexer.MarketplaceIndexer
	accounts   []common.Address
}

func NewServer(c *chain.Chain, deployment *deploy.Deployment, idx indexer.MarketplaceIndexer, accounts []common.Address) *Server {
	return &Server{chain: c, deployment: deployment, indexer: idx, accounts: accounts}
}

func (s *Server) Router() (*mux.Router, error) {
	rpcServer, err := s.rpcServer()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/rpc", rpcServer).Methods("POST")
	r.NotFoundHandler = notFoundHandler()

	return r, nil
}

func (s *Server) rpcServer() (*rpc.Server, error) {
	rpcServer := rpc.NewServer()
	codec := json2.NewCodec()
	rpcServer.RegisterCodec(codec, "application/json")
	rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")

	services := map[string]interface{}{
		"Marketplace": &MarketplaceService{marketplace: s.deployment.Marketplace, indexer: s.indexer},
		"Nft":         &NftService{nft: s.deployment.Nft},
		"Node":        &NodeService{chain: s.chain, deployment: s.deployment, accounts: s.accounts},
	}
	for name, service := range services {
		if err := rpcServer.RegisterService(service, name); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return rpcServer, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	blockNum, err := s.chain.BlockNumber(r.Context())
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Server: Chain unavailable")
		http.Error(w, "Chain unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthReply{Status: "OK", ChainID: s.chain.ChainID(), BlockNumber: blockNum})
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
