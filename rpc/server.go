// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

// Package rpc exposes the node's HTTP surface: transaction submission,
// account and ledger queries, and a websocket feed of new entries.
package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cielu/go-solnode/common"
	"github.com/cielu/go-solnode/node"
)

// Server routes client requests into the node pipeline.
type Server struct {
	node     *node.Node
	log      *logrus.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer builds a Server around n.
func NewServer(n *node.Node, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		node: n,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/transfer", s.handleTransfer).Methods("POST")
	r.HandleFunc("/accounts/{address}", s.handleAccount).Methods("GET")
	r.HandleFunc("/poh/entries", s.handleEntries).Methods("GET")
	r.HandleFunc("/poh/verify", s.handleVerify).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/ws/entries", s.handleEntryFeed).Methods("GET")
	s.router = r
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("listen", addr).Info("rpc listening")
	return http.ListenAndServe(addr, s.router)
}

// transferRequest names a sender and recipient by genesis wallet id.
type transferRequest struct {
	From     *uint8  `json:"from"`
	To       *uint8  `json:"to"`
	Lamports *uint64 `json:"lamports"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding body"))
		return
	}
	if req.From == nil || req.To == nil || req.Lamports == nil {
		s.writeError(w, http.StatusBadRequest, errors.New(`"from", "to" and "lamports" are required`))
		return
	}

	receipt, err := s.node.SubmitTransfer(*req.From, *req.To, *req.Lamports)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, node.ErrUnknownWallet) {
			status = http.StatusNotFound
		}
		s.log.WithError(err).Warn("transfer rejected")
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"receipt": receipt,
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr := common.Base58ToAddress(mux.Vars(r)["address"])
	account, ok := s.node.Account(addr)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("account not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"address": addr,
		"account": account,
	})
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	from := 0
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, errors.Wrap(err, `"from"`))
			return
		}
		from = parsed
	}
	entries := s.node.Entries(from)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"from":    from,
		"entries": entries,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	valid := s.node.VerifyLedger()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"valid":    valid,
		"lastHash": s.node.LastHash(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"lastHash": s.node.LastHash(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("writing response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": err.Error(),
	})
}
