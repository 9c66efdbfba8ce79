package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func parsePubKey(data string) (ed25519.PublicKey, error) {
	pk, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	} else if len(pk) != ed25519.PublicKeySize {
		return nil, errors.New("invalid public key: invalid length")
	}
	return pk, nil
}

type interactionServer struct {
	pubKey ed25519.PublicKey
	token  string
	handle func(*discordgo.Session, *discordgo.InteractionCreate)
	log    *slog.Logger
}

// newMux serves Prometheus metrics, and Discord interactions when a public key is set.
func newMux(srv *interactionServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	if len(srv.pubKey) == ed25519.PublicKeySize {
		mux.Handle("POST /", srv)
	}
	return mux
}

func listenAndServe(port string, mux *http.ServeMux, log *slog.Logger) {
	log.Info("listening", "port", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Error("http server stopped", "error", err)
	}
}

func (srv *interactionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, srv.pubKey) {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	i := &discordgo.InteractionCreate{}
	if err := json.NewDecoder(r.Body).Decode(i); err != nil {
		srv.log.Warn("failed to decode interaction", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if i.Type == discordgo.InteractionPing {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(discordgo.InteractionResponse{
			Type: discordgo.InteractionResponsePong,
		})
		if err != nil {
			srv.log.Error("error sending response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusAccepted)
	go func() {
		s, err := discordgo.New("Bot " + srv.token)
		if err != nil {
			srv.log.Error("failed to create session", "error", err)
			return
		}
		srv.handle(s, i)
	}()
}
