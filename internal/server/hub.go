package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"domino-game/internal/database"
	"domino-game/internal/game"
	"domino-game/internal/protocol"
	"domino-game/internal/shared"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const gameCodeLength = 5 // Length of the unique game code

// Hub manages active WebSocket connections, lobbies, and game sessions.
type Hub struct {
	clients        map[*Client]bool
	lobbies        map[string][]*Client // Map game code to list of clients in the lobby
	lobbyGoals     map[string]int       // Map game code to the creator's points goal
	games          map[string]*session  // Map game code to running session
	clientToGame   map[*Client]string   // Map client to game code (lobby or active game)
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	gameMu         sync.RWMutex
	rng            *rand.Rand
	db             *database.Service
}

// NewHub creates a new Hub instance.
func NewHub(db *database.Service) *Hub {
	source := rand.NewSource(time.Now().UnixNano())
	rng := rand.New(source)

	return &Hub{
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string][]*Client),
		lobbyGoals:     make(map[string]int),
		games:          make(map[string]*session),
		clientToGame:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rng,
		db:             db,
	}
}

// generateGameCode creates a unique alphanumeric game code.
func (h *Hub) generateGameCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < gameCodeLength; i++ {
			sb.WriteByte(letters[h.rng.Intn(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.gameMu.RLock()
		_, gameExists := h.games[code]
		h.gameMu.RUnlock()

		if !lobbyExists && !gameExists {
			return code
		}
		log.Printf("Generated game code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString() // Assign a unique ID upon registration
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			gameCode, inGameOrLobby := h.clientToGame[client]
			_, clientExists := h.clients[client]

			if clientExists {
				delete(h.clients, client)
				delete(h.clientToGame, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()

			if inGameOrLobby {
				h.lobbyMu.Lock()
				lobby, lobbyExists := h.lobbies[gameCode]
				if lobbyExists {
					newLobby := []*Client{}
					for _, c := range lobby {
						if c != client {
							newLobby = append(newLobby, c)
						}
					}
					if len(newLobby) > 0 {
						h.lobbies[gameCode] = newLobby
						log.Printf("Client %s removed from lobby %s.", client.ID, gameCode)
						h.broadcastLobbyUpdate(gameCode, newLobby)
					} else {
						delete(h.lobbies, gameCode)
						delete(h.lobbyGoals, gameCode)
						log.Printf("Client %s left lobby %s. Lobby deleted.", client.ID, gameCode)
					}
					h.lobbyMu.Unlock()
				} else {
					h.lobbyMu.Unlock()

					h.gameMu.RLock()
					gameSession, gameExists := h.games[gameCode]
					h.gameMu.RUnlock()

					if gameExists {
						log.Printf("Client %s was in game %s. Notifying session.", client.ID, gameCode)
						go gameSession.HandleDisconnect(client.ID) // Run in goroutine to avoid blocking hub
					} else {
						log.Printf("Client %s disconnected but was mapped to non-existent game/lobby code %s", client.ID, gameCode)
					}
				}
			} else if clientExists {
				log.Printf("Client %s disconnected before joining/creating a game.", client.ID)
			}

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_game":
		h.handleCreateGame(client, msg)
	case "join_game":
		h.handleJoinGame(client, msg)
	case "play_action":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateGame handles a request to create a new game lobby.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		log.Printf("Client %s tried to create game but is already associated with one.", client.ID)
		h.sendErrorToClient(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_game payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to create game with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	if payload.DesiredTeam != shared.TeamRed && payload.DesiredTeam != shared.TeamBlue {
		h.sendErrorToClient(client, "Invalid desired team.")
		return
	}
	pointsGoal := payload.PointsGoal
	if pointsGoal <= 0 {
		pointsGoal = game.DefaultTargetScore
	}

	gameCode := h.generateGameCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	client.DesiredTeam = payload.DesiredTeam
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	h.lobbyMu.Lock()
	h.lobbies[gameCode] = []*Client{client}
	h.lobbyGoals[gameCode] = pointsGoal
	h.lobbyMu.Unlock()

	log.Printf("Client %s (%s) created lobby %s (target %d)", client.ID, client.Name, gameCode, pointsGoal)

	createdPayload := protocol.GameCreatedPayload{GameCode: gameCode}
	createdMsg, _ := protocol.NewMessage("game_created", createdPayload)
	h.sendMessageToClient(client.ID, createdMsg)

	h.broadcastLobbyUpdate(gameCode, []*Client{client})
}

// handleJoinGame handles a request to join an existing game lobby.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInGame := h.clientToGame[client]
	h.clientMu.RUnlock()
	if alreadyInGame {
		log.Printf("Client %s tried to join game but is already associated with one.", client.ID)
		h.sendJoinError(client, "Already in a game or lobby.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_game payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.GameCode == "" {
		h.sendJoinError(client, "Game code cannot be empty.")
		return
	}
	if payload.DesiredTeam != shared.TeamRed && payload.DesiredTeam != shared.TeamBlue {
		h.sendJoinError(client, "Invalid desired team.")
		return
	}
	gameCode := strings.ToUpper(payload.GameCode)

	h.lobbyMu.Lock()
	lobby, lobbyExists := h.lobbies[gameCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join non-existent lobby %s", client.ID, gameCode)
		h.sendJoinError(client, "Game code not found.")
		return
	}
	if len(lobby) >= shared.NumPlayers {
		h.lobbyMu.Unlock()
		h.sendJoinError(client, "Game lobby is full.")
		return
	}
	for _, existingClient := range lobby {
		if existingClient.Name == payload.Name {
			h.lobbyMu.Unlock()
			h.sendJoinError(client, "Name already taken in this lobby.")
			return
		}
	}

	client.Name = payload.Name
	client.DesiredTeam = payload.DesiredTeam
	newLobby := append(lobby, client)
	h.lobbies[gameCode] = newLobby
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToGame[client] = gameCode
	h.clientMu.Unlock()

	log.Printf("Client %s (%s) joined lobby %s. Lobby size: %d", client.ID, client.Name, gameCode, len(newLobby))
	h.broadcastLobbyUpdate(gameCode, newLobby)

	if len(newLobby) == shared.NumPlayers {
		h.startGame(gameCode)
	}
}

// startGame promotes a full lobby into a running session.
func (h *Hub) startGame(gameCode string) {
	log.Printf("Lobby %s is full. Starting game...", gameCode)

	h.gameMu.Lock()
	h.lobbyMu.Lock()

	finalLobby, finalLobbyExists := h.lobbies[gameCode]
	if !finalLobbyExists || len(finalLobby) != shared.NumPlayers {
		log.Printf("Error: Lobby %s state changed unexpectedly before game start. Aborting start.", gameCode)
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		return
	}

	seated, err := assignSeats(finalLobby)
	if err != nil {
		log.Printf("Error seating lobby %s: %v", gameCode, err)
		errorMsgBytes, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: "Failed to start game due to internal error."})
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		h.broadcastToLobby(gameCode, errorMsgBytes)
		return
	}

	targetScore := h.lobbyGoals[gameCode]
	gameSession, err := newSession(gameCode, h, h.db, seated, targetScore)
	if err != nil {
		log.Printf("Error creating session for lobby %s: %v", gameCode, err)
		errorMsgBytes, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: "Failed to start game due to internal error."})
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		h.broadcastToLobby(gameCode, errorMsgBytes)
		return
	}

	h.games[gameCode] = gameSession
	delete(h.lobbies, gameCode)
	delete(h.lobbyGoals, gameCode)

	h.lobbyMu.Unlock()
	h.gameMu.Unlock()

	log.Printf("Game session created for code %s with ID %s. Players: %v", gameCode, gameSession.game.ID, playerNames(finalLobby))
	go gameSession.run()
}

// assignSeats places clients so that partners sit opposite each other:
// team 1 takes seats 0 and 2, team 2 takes seats 1 and 3. Clients
// whose preference is already full spill into the remaining seats in
// join order.
func assignSeats(clients []*Client) ([shared.NumPlayers]*Client, error) {
	var seated [shared.NumPlayers]*Client
	if len(clients) != shared.NumPlayers {
		return seated, fmt.Errorf("need %d clients to seat, got %d", shared.NumPlayers, len(clients))
	}

	teamSeats := map[shared.TeamEnum][]int{
		shared.TeamRed:  {0, 2},
		shared.TeamBlue: {1, 3},
	}

	var overflow []*Client
	for _, c := range clients {
		seats := teamSeats[c.DesiredTeam]
		if len(seats) == 0 {
			overflow = append(overflow, c)
			continue
		}
		seated[seats[0]] = c
		teamSeats[c.DesiredTeam] = seats[1:]
	}
	for _, c := range overflow {
		for i := range seated {
			if seated[i] == nil {
				seated[i] = c
				break
			}
		}
	}
	return seated, nil
}

// handleGameAction forwards a play_action to the correct session.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	gameCode, inGame := h.clientToGame[client]
	h.clientMu.RUnlock()

	if !inGame {
		log.Printf("Received '%s' from client %s not in any game/lobby.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in an active game or lobby.")
		return
	}

	h.gameMu.RLock()
	gameSession, gameExists := h.games[gameCode]
	h.gameMu.RUnlock()

	if !gameExists {
		log.Printf("Received '%s' from client %s for game code %s, but session not found.", msg.Type, client.ID, gameCode)
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	var payload protocol.PlayActionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling play_action payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid play_action message.")
		return
	}

	if err := gameSession.HandleAction(client.ID, payload.Action); err != nil {
		log.Printf("Rejected action from client %s in game %s: %v", client.ID, gameCode, err)
		h.sendErrorToClient(client, "Invalid move: "+err.Error())
	}
}

// removeGame drops a finished session. Clients stay connected and may
// create or join a new lobby.
func (h *Hub) removeGame(gameCode string) {
	h.gameMu.Lock()
	gameSession, exists := h.games[gameCode]
	delete(h.games, gameCode)
	h.gameMu.Unlock()
	if !exists {
		return
	}

	h.clientMu.Lock()
	for client, code := range h.clientToGame {
		if code == gameCode {
			delete(h.clientToGame, client)
		}
	}
	h.clientMu.Unlock()
	log.Printf("Game %s (session %s) removed.", gameCode, gameSession.game.ID)
}

// Helper to get player names for logging
func playerNames(players []*Client) []string {
	names := make([]string, len(players))
	for i, p := range players {
		if p != nil {
			names[i] = p.Name
		} else {
			names[i] = "<nil>"
		}
	}
	return names
}

// sendMessageToClient allows the session to send messages back via the hub/client.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient != nil {
		// Use a non-blocking send with select to avoid blocking the hub/game goroutine
		select {
		case targetClient.send <- message:
		default:
			log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
			go func() {
				h.clientMu.RLock()
				_, stillConnected := h.clients[targetClient]
				h.clientMu.RUnlock()
				if stillConnected {
					h.unregister <- targetClient
				}
			}()
		}
	} else {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
	}
}

// broadcastToLobby sends a message to all clients currently in a specific lobby.
func (h *Hub) broadcastToLobby(gameCode string, message []byte) {
	h.lobbyMu.RLock()
	lobby, exists := h.lobbies[gameCode]
	if !exists {
		h.lobbyMu.RUnlock()
		log.Printf("Warning: Tried to broadcast to non-existent lobby %s", gameCode)
		return
	}
	clientsToSend := make([]*Client, len(lobby))
	copy(clientsToSend, lobby)
	h.lobbyMu.RUnlock()

	for _, client := range clientsToSend {
		if client != nil {
			select {
			case client.send <- message:
			default:
				log.Printf("Failed to send lobby message to client %s (channel full or closed)", client.ID)
				go func(c *Client) {
					h.clientMu.RLock()
					_, stillConnected := h.clients[c]
					h.clientMu.RUnlock()
					if stillConnected {
						h.unregister <- c
					}
				}(client)
			}
		}
	}
}

// broadcastLobbyUpdate sends the current list of players in the lobby.
func (h *Hub) broadcastLobbyUpdate(gameCode string, lobby []*Client) {
	playerInfos := make([]protocol.PlayerInfo, len(lobby))
	for i, c := range lobby {
		if c != nil {
			playerInfos[i] = protocol.PlayerInfo{ID: c.ID, Name: c.Name}
		}
	}
	payload := protocol.LobbyUpdatePayload{Players: playerInfos}
	msgBytes, err := protocol.NewMessage("lobby_update", payload)
	if err != nil {
		log.Printf("Error creating lobby_update message for lobby %s: %v", gameCode, err)
		return
	}
	h.broadcastToLobby(gameCode, msgBytes)
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	payload := protocol.ErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	payload := protocol.JoinErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("join_error", payload)
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
