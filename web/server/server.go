// Package server exposes the renderer over HTTP: a single live Cornell-box
// scene streamed to any number of connected clients as SSE frame events,
// plus a settings endpoint so a browser control panel can retune the
// render live.
package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kallidan/restir-di-renderer/pkg/accel"
	"github.com/kallidan/restir-di-renderer/pkg/core"
	"github.com/kallidan/restir-di-renderer/pkg/renderer"
	"github.com/kallidan/restir-di-renderer/pkg/scenebuild"
)

const (
	// frameInterval is how often handleRender polls the renderer's front
	// buffer and pushes a new frame to connected clients.
	frameInterval        = 66 * time.Millisecond // ~15fps
	consoleChannelBuffer = 50
)

// Server hosts the live renderer and fans its frames and console log out
// to any number of connected SSE clients.
type Server struct {
	port     int
	renderer *renderer.Renderer
	sceneDim struct{ width, height int }

	mu        sync.Mutex
	subs      map[int]chan ConsoleMessage
	nextSubID int

	terminate chan struct{}
}

// NewServer builds a Server with a default Cornell box scene and starts
// nothing yet; call Start to launch the render loop and HTTP listener.
func NewServer(port int) *Server {
	s := &Server{
		port:      port,
		subs:      make(map[int]chan ConsoleMessage),
		terminate: make(chan struct{}),
	}
	s.sceneDim.width, s.sceneDim.height = 640, 480

	settings := core.DefaultSettings()
	settings.FrameWidth = s.sceneDim.width
	settings.FrameHeight = s.sceneDim.height

	scene := scenebuild.CornellBox(s.sceneDim.width, s.sceneDim.height)

	logChan := make(chan ConsoleMessage, consoleChannelBuffer)
	go s.relayConsole(logChan)

	s.renderer = renderer.NewRenderer(settings, scene, NewWebLogger("live", logChan))
	return s
}

// relayConsole forwards every message the render thread's WebLogger
// produces to whichever SSE clients are currently subscribed.
func (s *Server) relayConsole(logChan <-chan ConsoleMessage) {
	for msg := range logChan {
		s.broadcastConsole(msg)
	}
}

// broadcastConsole fans one log line out to every subscribed SSE client,
// dropping it for any subscriber whose buffer is full rather than
// blocking the render loop.
func (s *Server) broadcastConsole(msg ConsoleMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) subscribe() (id int, ch chan ConsoleMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = s.nextSubID
	s.nextSubID++
	ch = make(chan ConsoleMessage, consoleChannelBuffer)
	s.subs[id] = ch
	return id, ch
}

func (s *Server) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Start launches the render loop in the background and blocks serving
// HTTP until the listener fails.
func (s *Server) Start() error {
	go s.renderer.Run(s.terminate)

	http.Handle("/", http.FileServer(http.Dir("static/")))
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/settings", s.handleSettings)
	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/scene-config", s.handleSceneConfig)
	http.HandleFunc("/api/scene", s.handleScene)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// frameUpdate is one SSE "frame" event: the current front buffer as a
// base64 PNG plus the stats from the frame that produced it.
type frameUpdate struct {
	ImageData    string              `json:"imageData"`
	FrameNumber  int                 `json:"frameNumber"`
	FrameMs      float64             `json:"frameMs"`
	Mode         string              `json:"mode"`
	HistoryValid bool                `json:"historyValid"`
	Width        int                 `json:"width"`
	Height       int                 `json:"height"`
}

// handleRender streams the live render as SSE: a "frame" event every
// frameInterval and a "console" event per log line, until the client
// disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.sendSSEError(w, "streaming not supported")
		return
	}

	ctx := r.Context()
	subID, consoleChan := s.subscribe()
	defer s.unsubscribe(subID)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-consoleChan:
			if !ok {
				continue
			}
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("error marshaling console message: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: console\ndata: %s\n\n", data)
			flusher.Flush()

		case <-ticker.C:
			img := s.renderer.Front()
			stats := s.renderer.Stats()

			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				log.Printf("error encoding frame: %v", err)
				continue
			}

			update := frameUpdate{
				ImageData:    base64.StdEncoding.EncodeToString(buf.Bytes()),
				FrameNumber:  stats.FrameNumber,
				FrameMs:      float64(stats.FrameDuration.Microseconds()) / 1000,
				Mode:         stats.Mode,
				HistoryValid: stats.HistoryValid,
				Width:        stats.Width,
				Height:       stats.Height,
			}
			data, err := json.Marshal(update)
			if err != nil {
				log.Printf("error marshaling frame update: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// settingsRequest is the JSON body accepted by POST /api/settings: any
// field omitted keeps its current live value.
type settingsRequest struct {
	Mode                 *string  `json:"mode"`
	CandidateCountRestir *int     `json:"candidateCountRestir"`
	EnableVisibilityPass *bool    `json:"enableVisibilityPass"`
	EnableTemporalReuse  *bool    `json:"enableTemporalReuse"`
	EnableSpatialReuse   *bool    `json:"enableSpatialReuse"`
	SpatialPixelRadius   *int     `json:"spatialPixelRadius"`
	ThreadCount          *int     `json:"threadCount"`
}

var modesByName = map[string]core.RenderMode{
	core.ModeNormals.String():        core.ModeNormals,
	core.ModeTraversalSteps.String(): core.ModeTraversalSteps,
	core.ModeDI.String():             core.ModeDI,
	core.ModeReSTIR.String():         core.ModeReSTIR,
}

// handleSettings applies a partial settings update to the live renderer.
// Unset fields keep the renderer's current value for that field.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "POST required"})
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	settings := s.renderer.CurrentSettings()
	if req.Mode != nil {
		mode, ok := modesByName[*req.Mode]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "unknown mode: " + *req.Mode})
			return
		}
		settings.Mode = mode
	}
	if req.CandidateCountRestir != nil {
		settings.CandidateCountRestir = *req.CandidateCountRestir
	}
	if req.EnableVisibilityPass != nil {
		settings.EnableVisibilityPass = *req.EnableVisibilityPass
	}
	if req.EnableTemporalReuse != nil {
		settings.EnableTemporalReuse = *req.EnableTemporalReuse
	}
	if req.EnableSpatialReuse != nil {
		settings.EnableSpatialReuse = *req.EnableSpatialReuse
	}
	if req.SpatialPixelRadius != nil {
		settings.SpatialPixelRadius = *req.SpatialPixelRadius
	}
	if req.ThreadCount != nil {
		settings.ThreadCount = *req.ThreadCount
	}

	s.renderer.SubmitSettings(settings)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleSceneConfig reports the renderer's current live settings, for a
// control panel to seed its form from.
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.renderer.CurrentSettings())
}

// lightUpdate is one point light in a POST /api/scene body: a position,
// a linear-space color, and a separate intensity scalar, matching
// scenebuild.GenerateLights' PointLight construction.
type lightUpdate struct {
	Position  [3]float64 `json:"position"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
}

// objectPoseUpdate retargets one existing instance by name; instances not
// named in the request keep their current pose.
type objectPoseUpdate struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    float64    `json:"scale"`
}

// sceneRequest is the JSON body accepted by POST /api/scene. RegenerateLights
// takes precedence over an explicit Lights list; omitting both leaves the
// current lights untouched. Objects retargets named instances in a
// rebuilt copy of the current Tlas.
type sceneRequest struct {
	RegenerateLights bool               `json:"regenerateLights"`
	Lights           []lightUpdate      `json:"lights"`
	Objects          []objectPoseUpdate `json:"objects"`
}

// handleScene submits a scene descriptor (lights and/or object poses) into
// the renderer's scene slot. A light-only update regenerates or replaces
// the light list; an object-pose update retargets named Tlas instances on
// the renderer's current scene. Either kind of change always invalidates
// temporal history (see Renderer.beginFrame), matching the original
// generator's GenerateLights-then-InvalidateHistory pairing.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "POST required"})
		return
	}

	var req sceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	scene := s.renderer.CurrentScene()

	switch {
	case req.RegenerateLights:
		scene.Lights = scenebuild.GenerateLights(s.renderer.CurrentSettings())
	case len(req.Lights) > 0:
		lights := make([]core.PointLight, len(req.Lights))
		for i, l := range req.Lights {
			position := core.NewVec3(l.Position[0], l.Position[1], l.Position[2])
			color := core.NewVec3(l.Color[0], l.Color[1], l.Color[2])
			lights[i] = core.NewPointLight(position, color, l.Intensity)
		}
		scene.Lights = lights
	}

	if len(req.Objects) > 0 {
		// Rebuild into a fresh Tlas rather than mutating the live one in
		// place: scene.Accelerator's current Tlas may be read concurrently
		// by the render thread until this scene is actually picked up at
		// the next frame boundary.
		if tlas, ok := scene.Accelerator.(*accel.Tlas); ok {
			poses := make(map[string]objectPoseUpdate, len(req.Objects))
			for _, p := range req.Objects {
				poses[p.Name] = p
			}
			retargeted := accel.NewTlas()
			for _, inst := range tlas.Instances() {
				transform := inst.Transform
				if pose, ok := poses[inst.Name]; ok {
					scale := pose.Scale
					if scale == 0 {
						scale = 1
					}
					transform.Set(
						core.NewVec3(pose.Position[0], pose.Position[1], pose.Position[2]),
						core.NewVec3(pose.Rotation[0], pose.Rotation[1], pose.Rotation[2]),
						scale,
					)
				}
				retargeted.AddInstance(inst.Name, inst.Blas, transform)
			}
			scene.Accelerator = retargeted
		}
	}

	s.renderer.SubmitScene(scene)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// sendSSEError sends an error via SSE.
func (s *Server) sendSSEError(w http.ResponseWriter, message string) {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", message)
		flusher.Flush()
	}
}
