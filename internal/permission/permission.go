// Package permission porte la règle commune à tous les contenus : lecture ouverte
// à tous, écriture réservée à l'auteur de la ressource.
package permission

import (
	"errors"
	"net/http"
)

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

var (
	ErrUnauthenticated = errors.New("authentification requise")
	ErrForbidden       = errors.New("action réservée à l'auteur")
)

// Check autorise ou refuse action pour callerID sur une ressource appartenant à ownerID.
// callerID vide = appelant anonyme. ownerID est ignoré pour Read et Create.
func Check(callerID, ownerID string, action Action) error {
	switch action {
	case Read:
		return nil
	case Create:
		if callerID == "" {
			return ErrUnauthenticated
		}
		return nil
	case Update, Delete:
		if callerID == "" {
			return ErrUnauthenticated
		}
		if ownerID == "" || callerID != ownerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// Status traduit une erreur de Check en code HTTP
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}
