package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol matches any *ProtocolError via errors.Is.
	ErrProtocol = errors.New("server error")
	// ErrMalformed matches any *MalformedError via errors.Is.
	ErrMalformed = errors.New("malformed message")
)

// ErrorCode is a server error code, rendered on the wire as E001..E018.
type ErrorCode int

const (
	InvalidCommand ErrorCode = iota + 1
	NotYourTurn
	InvalidCardIndex
	NoChopsticks
	GameNotFound
	GameAlreadyStarted
	NameTaken
	AlreadySubmitted
	DuplicateIndex
	GameFull
	PlayerNotFound
	GameEnded
	NotInGame
	InternalError
	TournamentNotFound
	TournamentFull
	TournamentAlreadyStarted
	InvalidTournamentPlayerCount
)

var defaultMessages = map[ErrorCode]string{
	InvalidCommand:               "Invalid command format",
	NotYourTurn:                  "Not your turn or game not ready",
	InvalidCardIndex:             "Invalid card index",
	NoChopsticks:                 "No chopsticks available",
	GameNotFound:                 "Game not found",
	GameAlreadyStarted:           "Game has already started",
	NameTaken:                    "Name already taken",
	AlreadySubmitted:             "Already submitted move this turn",
	DuplicateIndex:               "Cannot use same card index twice",
	GameFull:                     "Game is full",
	PlayerNotFound:               "Player not found",
	GameEnded:                    "Game has ended",
	NotInGame:                    "Not in a game",
	InternalError:                "Internal server error",
	TournamentNotFound:           "Tournament not found",
	TournamentFull:               "Tournament is full",
	TournamentAlreadyStarted:     "Tournament has already started",
	InvalidTournamentPlayerCount: "Invalid tournament player count (must be 4-50)",
}

// Valid reports whether the code is one the server defines.
func (c ErrorCode) Valid() bool {
	_, ok := defaultMessages[c]
	return ok
}

// String returns the wire form, e.g. "E001".
func (c ErrorCode) String() string {
	return fmt.Sprintf("E%03d", int(c))
}

// DefaultMessage returns the server's standard text for the code.
func (c ErrorCode) DefaultMessage() string {
	return defaultMessages[c]
}

// ParseErrorCode parses "E001" into InvalidCommand.
func ParseErrorCode(s string) (ErrorCode, error) {
	if len(s) != 4 || s[0] != 'E' {
		return 0, fmt.Errorf("invalid error code format: %q", s)
	}
	n := 0
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid error code format: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	code := ErrorCode(n)
	if !code.Valid() {
		return 0, fmt.Errorf("unknown error code: %q", s)
	}
	return code, nil
}

// ProtocolError is a well-formed ERROR reply from the server.
type ProtocolError struct {
	Code    ErrorCode
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

// MalformedKind classifies why a line could not be parsed.
type MalformedKind int

const (
	MalformedEmpty MalformedKind = iota
	MalformedUnknownKeyword
	MalformedPayload
)

func (k MalformedKind) String() string {
	switch k {
	case MalformedEmpty:
		return "empty line"
	case MalformedUnknownKeyword:
		return "unknown keyword"
	case MalformedPayload:
		return "bad payload"
	default:
		return "unknown"
	}
}

// MalformedError reports a line that does not match any message shape.
type MalformedError struct {
	Kind    MalformedKind
	Keyword string
	Line    string
	Err     error
}

func (e *MalformedError) Error() string {
	switch {
	case e.Kind == MalformedEmpty:
		return "malformed message: empty line"
	case e.Err != nil:
		return fmt.Sprintf("malformed %s message: %v", e.Keyword, e.Err)
	default:
		return fmt.Sprintf("malformed message: %s %q", e.Kind, e.Keyword)
	}
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}
