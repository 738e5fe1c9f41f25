package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/songforge/constants"
	"github.com/jsphweid/songforge/model"
	"github.com/jsphweid/songforge/sample"
	"github.com/jsphweid/songforge/score"
	"github.com/jsphweid/songforge/song"
	"github.com/jsphweid/songforge/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
)

const maxUploadBytes = 10 << 20

var (
	serveAddr      string
	serveAssembler = song.NewAssembler(song.DefaultOptions())
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long: `Serves conversions over HTTP.

  POST /songs?name=<filename>   body is the score file, response is the Song
  POST /songs/midi?name=<filename>[&section=<n>]
                                same input, response is a MIDI rendering
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeConfig(); err != nil {
			return err
		}
		log.Printf("Listening on %v", serveAddr)
		return http.ListenAndServe(serveAddr, NewRouter())
	},
}

func LoadServeConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serveAssembler = song.NewAssembler(cfg.SongOptions())
	return nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	router.HandleFunc("/songs", HandleConvert).Methods("POST")
	router.HandleFunc("/songs/midi", HandleMidi).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Could not write response: %v", err)
	}
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

// convertUpload reads the uploaded score and assembles it. On failure it
// has already written the error response.
func convertUpload(w http.ResponseWriter, r *http.Request) (model.Song, bool) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	name := filepath.Base(r.URL.Query().Get("name"))
	if !validUploadName(name) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:  "name must be a score filename",
			Reason: fmt.Sprintf("supported extensions: %v", constants.ScoreExtensions),
		})
		return model.Song{}, false
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "could not read body", Reason: err.Error()})
		return model.Song{}, false
	}
	if len(data) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "score is too large"})
		return model.Song{}, false
	}

	parsed, err := score.Read(name, data)
	if err != nil {
		log.Printf("[%v] Skipping %v because: %v", requestID, name, err)
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "could not read score", Reason: err.Error()})
		return model.Song{}, false
	}
	s, err := serveAssembler.Convert(name, parsed)
	switch {
	case song.IsRejection(err):
		log.Printf("[%v] Skipping %v because: %v", requestID, name, err)
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: "score has too little content", Reason: err.Error()})
		return model.Song{}, false
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "conversion failed", Reason: err.Error()})
		return model.Song{}, false
	}

	log.Printf("[%v] Converted %v → %v", requestID, name, s.ID)
	return s, true
}

// HandleConvert turns the uploaded score into a Song. The name query
// parameter picks the reader by extension and seeds the song ID.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	s, ok := convertUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleMidi renders the converted song, or one of its sections, as MIDI.
func HandleMidi(w http.ResponseWriter, r *http.Request) {
	var mf *smf.SMF
	index := -1
	if v := r.URL.Query().Get("section"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "section must be a non-negative number"})
			return
		}
		index = n
	}

	s, ok := convertUpload(w, r)
	if !ok {
		return
	}
	switch {
	case index < 0:
		mf = sample.FromSong(s)
	case index < len(s.Sections):
		mf = sample.FromSection(s, s.Sections[index])
	default:
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{
			Error:  "no such section",
			Reason: fmt.Sprintf("%v has %v sections", s.ID, len(s.Sections)),
		})
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.WriteHeader(http.StatusOK)
	if err := sample.Write(w, mf); err != nil {
		log.Printf("Could not write midi: %v", err)
	}
}

func validUploadName(name string) bool {
	return len(name) > len(filepath.Ext(name)) && util.HasScoreExtension(name, constants.ScoreExtensions)
}
