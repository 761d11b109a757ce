package server

import (
	"errors"
	"net/http"

	"github.com/alkime/pomodoro/internal/audio/codec"
	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/gin-gonic/gin"
)

// TimerResponse is the JSON view of the timer.
type TimerResponse struct {
	timer.State
	Label       string `json:"label"`
	Clock       string `json:"clock"`
	ButtonLabel string `json:"button_label"`
	Session     string `json:"session"`
}

// PresetResponse describes one catalog entry.
type PresetResponse struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	DurationMS int64  `json:"duration_ms"`
	Peak       int    `json:"peak"`
	Selectable bool   `json:"selectable"`
}

type selectPresetRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) timerResponse(state timer.State) TimerResponse {
	return NewTimerResponse(state, s.timer.Settings())
}

// NewTimerResponse derives the display fields from state. Progress comes
// with the snapshot.
func NewTimerResponse(state timer.State, settings timer.Settings) TimerResponse {
	button := "Start"
	if state.Running {
		button = "Pause"
	}

	return TimerResponse{
		State:       state,
		Label:       state.Phase.Label(),
		Clock:       timer.FormatClock(state.TimeLeft),
		ButtonLabel: button,
		Session:     timer.SessionText(state.SessionCount, settings),
	}
}

func (s *Server) handleGetTimer(c *gin.Context) {
	state, err := s.timer.Snapshot(c.Request.Context())
	if err != nil {
		s.abortUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, s.timerResponse(state))
}

// handleCommand runs op on the timer loop and answers with the new state.
func (s *Server) handleCommand(op func(*timer.Timer)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var state timer.State

		err := s.timer.Do(c.Request.Context(), func(t *timer.Timer) error {
			op(t)
			state = t.Snapshot()

			return nil
		})
		if err != nil {
			s.abortUnavailable(c, err)
			return
		}

		c.JSON(http.StatusOK, s.timerResponse(state))
	}
}

func (s *Server) handleSelectPreset(c *gin.Context) {
	var req selectPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "body must be {\"name\": \"<preset>\"}"})
		return
	}

	var state timer.State

	err := s.timer.Do(c.Request.Context(), func(t *timer.Timer) error {
		if err := t.SelectTickPreset(req.Name); err != nil {
			return err
		}

		state = t.Snapshot()

		return nil
	})

	switch {
	case errors.Is(err, synth.ErrUnknownPreset):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		s.abortUnavailable(c, err)
	default:
		s.logger.Info("tick preset changed", "preset", state.TickPreset)
		c.JSON(http.StatusOK, s.timerResponse(state))
	}
}

func (s *Server) handleListPresets(c *gin.Context) {
	presets := synth.Catalog()
	out := make([]PresetResponse, 0, len(presets))

	for _, p := range presets {
		kind := "tick"
		if p.Kind == synth.KindBell {
			kind = "bell"
		}

		out = append(out, PresetResponse{
			Name:       p.Name,
			Kind:       kind,
			DurationMS: p.Duration.Milliseconds(),
			Peak:       p.Peak,
			Selectable: p.Kind == synth.KindTick,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePresetWAV(c *gin.Context) {
	name := c.Param("name")

	buf, err := s.sounds.Buffer(name)
	if errors.Is(err, synth.ErrUnknownPreset) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err != nil {
		s.logger.Error("failed to load sound", "preset", name, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	data, err := codec.EncodeWAVBytes(buf)
	if err != nil {
		s.logger.Error("failed to encode sound", "preset", name, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	c.Data(http.StatusOK, "audio/wav", data)
}

func (s *Server) abortUnavailable(c *gin.Context, err error) {
	s.logger.Warn("timer unavailable", "error", err)
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "timer is not running"})
}
