package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type parseFunc func(payload string) (Message, error)

// parsers maps every server keyword to its payload parser. Parse consults
// nothing else, so adding a message means adding exactly one entry here.
var parsers = map[string]parseFunc{
	KeywordOK:                 parseOk,
	KeywordError:              parseError,
	KeywordWelcome:            parseWelcome,
	KeywordRejoined:           parseRejoined,
	KeywordCreated:            parseCreated,
	KeywordJoined:             parsePlayerJoined,
	KeywordLeft:               parsePlayerLeft,
	KeywordGameStart:          parseGameStart,
	KeywordRoundStart:         parseRoundStart,
	KeywordHand:               parseHand,
	KeywordWaiting:            parseWaiting,
	KeywordPlayed:             parseTurnResult,
	KeywordRoundEnd:           parseRoundEnd,
	KeywordGameEnd:            parseGameEnd,
	KeywordStatus:             parseStatus,
	KeywordGames:              parseGamesList,
	KeywordTournamentWelcome:  parseTournamentWelcome,
	KeywordTournamentRejoined: parseTournamentRejoined,
	KeywordTournamentJoined:   parseTournamentPlayerJoined,
	KeywordTournamentMatch:    parseTournamentMatch,
	KeywordTournamentComplete: parseTournamentComplete,
}

// Keywords returns every keyword Parse understands, sorted.
func Keywords() []string {
	keys := make([]string, 0, len(parsers))
	for k := range parsers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse turns one server line into a Message.
//
// An ERROR line never yields a Message: it is returned as a *ProtocolError.
// Lines that cannot be understood are returned as a *MalformedError.
func Parse(line string) (Message, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, &MalformedError{Kind: MalformedEmpty}
	}

	keyword, payload := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(line[i:])
		keyword, payload = line[:i], line[i+size:]
	}
	parse, ok := parsers[keyword]
	if !ok {
		return nil, &MalformedError{Kind: MalformedUnknownKeyword, Keyword: keyword, Line: line}
	}

	msg, err := parse(payload)
	if err != nil {
		var perr *ProtocolError
		if errors.As(err, &perr) {
			return nil, perr
		}
		return nil, &MalformedError{Kind: MalformedPayload, Keyword: keyword, Line: line, Err: err}
	}
	return msg, nil
}

func parseOk(payload string) (Message, error) {
	return Ok{Details: strings.TrimSpace(payload)}, nil
}

func parseError(payload string) (Message, error) {
	codeStr, text, _ := strings.Cut(strings.TrimSpace(payload), " ")
	code, err := ParseErrorCode(codeStr)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = code.DefaultMessage()
	}
	return nil, &ProtocolError{Code: code, Message: text}
}

func parseWelcome(payload string) (Message, error) {
	parts, err := fields(payload, 3)
	if err != nil {
		return nil, err
	}
	id, err := atoi("player id", parts[1])
	if err != nil {
		return nil, err
	}
	return Welcome{GameID: parts[0], PlayerID: id, RejoinToken: parts[2]}, nil
}

func parseRejoined(payload string) (Message, error) {
	parts, err := fields(payload, 2)
	if err != nil {
		return nil, err
	}
	id, err := atoi("player id", parts[1])
	if err != nil {
		return nil, err
	}
	return Rejoined{GameID: parts[0], PlayerID: id}, nil
}

func parseCreated(payload string) (Message, error) {
	parts, err := fields(payload, 1)
	if err != nil {
		return nil, err
	}
	return Created{GameID: parts[0]}, nil
}

// JOINED <name...> <count>/<max>; the name may contain spaces.
func parsePlayerJoined(payload string) (Message, error) {
	payload = strings.TrimSpace(payload)
	i := strings.LastIndexByte(payload, ' ')
	if i < 0 {
		return nil, errors.New("expected player name and count")
	}
	name := strings.TrimSpace(payload[:i])
	count, limit, err := parseCount(payload[i+1:])
	if err != nil {
		return nil, err
	}
	return PlayerJoined{Name: name, PlayerCount: count, MaxPlayers: limit}, nil
}

func parsePlayerLeft(payload string) (Message, error) {
	name := strings.TrimSpace(payload)
	if name == "" {
		return nil, errors.New("missing player name")
	}
	return PlayerLeft{Name: name}, nil
}

func parseGameStart(payload string) (Message, error) {
	parts, err := fields(payload, 2)
	if err != nil {
		return nil, err
	}
	count, err := atoi("player count", parts[0])
	if err != nil {
		return nil, err
	}
	ms, err := atoi("move timeout", parts[1])
	if err != nil {
		return nil, err
	}
	return GameStart{PlayerCount: count, MoveTimeout: time.Duration(ms) * time.Millisecond}, nil
}

func parseRoundStart(payload string) (Message, error) {
	parts, err := fields(payload, 1)
	if err != nil {
		return nil, err
	}
	round, err := atoi("round", parts[0])
	if err != nil {
		return nil, err
	}
	return RoundStart{Round: round}, nil
}

// parseHand splits "0:Tempura 1:Sashimi 2:Salmon Nigiri". A token starts
// wherever a run of digits directly followed by ':' begins at a word
// boundary; everything up to the next such marker is the card name.
func parseHand(payload string) (Message, error) {
	markers := handMarkers(payload)
	if len(markers) == 0 {
		if strings.TrimSpace(payload) != "" {
			return nil, fmt.Errorf("no index:name tokens in %q", payload)
		}
		return Hand{}, nil
	}
	if lead := strings.TrimSpace(payload[:markers[0].start]); lead != "" {
		return nil, fmt.Errorf("unexpected text %q before first card", lead)
	}

	cards := make([]HandCard, 0, len(markers))
	for i, m := range markers {
		end := len(payload)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		idx, err := atoi("card index", payload[m.start:m.colon])
		if err != nil {
			return nil, err
		}
		card, err := CardFromName(strings.TrimSpace(payload[m.colon+1 : end]))
		if err != nil {
			return nil, err
		}
		cards = append(cards, HandCard{Index: idx, Card: card})
	}
	return Hand{Cards: cards}, nil
}

type handMarker struct {
	start int // first digit
	colon int // position of ':'
}

func handMarkers(s string) []handMarker {
	var markers []handMarker
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) || (i > 0 && !isSpace(s[i-1])) {
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j < len(s) && s[j] == ':' {
			markers = append(markers, handMarker{start: i, colon: j})
		}
		i = j
	}
	return markers
}

func parseWaiting(payload string) (Message, error) {
	return Waiting{Players: strings.Fields(payload)}, nil
}

// parseTurnResult parses "Alice:TMP; Bob:MK3,WAS". One unknown code fails
// the whole line.
func parseTurnResult(payload string) (Message, error) {
	var plays []Play
	for _, entry := range strings.Split(payload, "; ") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, codes, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("entry %q missing ':'", entry)
		}
		play := Play{Player: name}
		for _, code := range strings.Split(codes, ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			card, err := CardFromCode(code)
			if err != nil {
				return nil, err
			}
			play.Cards = append(play.Cards, card)
		}
		plays = append(plays, play)
	}
	return TurnResult{Plays: plays}, nil
}

func parseRoundEnd(payload string) (Message, error) {
	roundStr, rest, _ := strings.Cut(strings.TrimSpace(payload), " ")
	round, err := atoi("round", roundStr)
	if err != nil {
		return nil, err
	}
	block, _, err := jsonBlock(rest)
	if err != nil {
		return nil, err
	}
	var scores map[string]RoundScore
	if err := json.Unmarshal([]byte(block), &scores); err != nil {
		return nil, fmt.Errorf("round scores: %w", err)
	}
	return RoundEnd{Round: round, Scores: scores}, nil
}

// parseGameEnd parses `{...} WINNER:a,b [NEXT:id] [TOURNAMENT_WINNER:n]`.
func parseGameEnd(payload string) (Message, error) {
	block, rest, err := jsonBlock(payload)
	if err != nil {
		return nil, err
	}
	msg := GameEnd{}
	if err := json.Unmarshal([]byte(block), &msg.FinalScores); err != nil {
		return nil, fmt.Errorf("final scores: %w", err)
	}

	for _, tok := range strings.Fields(rest) {
		key, value, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		switch key {
		case "WINNER":
			if value != "" {
				msg.Winners = strings.Split(value, ",")
			}
		case "NEXT":
			msg.NextGameID = value
		case "TOURNAMENT_WINNER":
			msg.TournamentWinner = value
		}
	}
	return msg, nil
}

func parseStatus(payload string) (Message, error) {
	block, _, err := jsonBlock(payload)
	if err != nil {
		return nil, err
	}
	var status GameStatus
	if err := json.Unmarshal([]byte(block), &status); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if status.GameID == "" || status.Phase == "" {
		return nil, errors.New("status missing game_id or phase")
	}
	return Status{Status: status}, nil
}

func parseGamesList(payload string) (Message, error) {
	block, _, err := jsonBlock(payload)
	if err != nil {
		return nil, err
	}
	var games []GameInfo
	if err := json.Unmarshal([]byte(block), &games); err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	return GamesList{Games: games}, nil
}

func parseTournamentWelcome(payload string) (Message, error) {
	parts, err := fields(payload, 3)
	if err != nil {
		return nil, err
	}
	count, limit, err := parseCount(parts[1])
	if err != nil {
		return nil, err
	}
	return TournamentWelcome{
		TournamentID: parts[0],
		PlayerCount:  count,
		MaxPlayers:   limit,
		RejoinToken:  parts[2],
	}, nil
}

func parseTournamentRejoined(payload string) (Message, error) {
	parts, err := fields(payload, 2)
	if err != nil {
		return nil, err
	}
	msg := TournamentRejoined{TournamentID: parts[0], Name: parts[1]}
	if len(parts) > 2 {
		msg.MatchToken = parts[2]
	}
	return msg, nil
}

func parseTournamentPlayerJoined(payload string) (Message, error) {
	parts, err := fields(payload, 3)
	if err != nil {
		return nil, err
	}
	count, limit, err := parseCount(parts[2])
	if err != nil {
		return nil, err
	}
	return TournamentPlayerJoined{
		TournamentID: parts[0],
		Name:         parts[1],
		PlayerCount:  count,
		MaxPlayers:   limit,
	}, nil
}

func parseTournamentMatch(payload string) (Message, error) {
	parts, err := fields(payload, 3)
	if err != nil {
		return nil, err
	}
	round, err := atoi("round", parts[2])
	if err != nil {
		return nil, err
	}
	msg := TournamentMatchAssigned{TournamentID: parts[0], MatchToken: parts[1], Round: round}
	if len(parts) > 3 {
		if parts[3] == byeOpponent {
			msg.Bye = true
		} else {
			msg.Opponent = parts[3]
		}
	}
	return msg, nil
}

func parseTournamentComplete(payload string) (Message, error) {
	parts, err := fields(payload, 2)
	if err != nil {
		return nil, err
	}
	return TournamentComplete{TournamentID: parts[0], Winner: parts[1]}, nil
}

// parseCount parses the "count/max" form shared by JOINED,
// TOURNAMENT_WELCOME and TOURNAMENT_JOINED.
func parseCount(s string) (count, limit int, err error) {
	countStr, maxStr, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("expected count/max, got %q", s)
	}
	if count, err = atoi("player count", countStr); err != nil {
		return 0, 0, err
	}
	if limit, err = atoi("max players", maxStr); err != nil {
		return 0, 0, err
	}
	return count, limit, nil
}

// jsonBlock finds the first balanced JSON object or array in s and returns
// it with whatever follows. Braces inside string literals are ignored.
func jsonBlock(s string) (block, rest string, err error) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", "", errors.New("missing JSON block")
	}
	if lead := strings.TrimSpace(s[:start]); lead != "" {
		return "", "", fmt.Errorf("unexpected text %q before JSON block", lead)
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], s[i+1:], nil
			}
		}
	}
	return "", "", errors.New("unbalanced JSON block")
}

func fields(payload string, min int) ([]string, error) {
	parts := strings.Fields(payload)
	if len(parts) < min {
		return nil, fmt.Errorf("expected %d fields, got %d", min, len(parts))
	}
	return parts, nil
}

func atoi(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
