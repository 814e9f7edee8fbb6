package score

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/robmorgan/scorefollow/logger"
	"github.com/sirupsen/logrus"
)

const (
	kindBar     = "bar"
	kindFermata = "fermata"
)

// UnmarshalJSON decodes a flat list of 4-tuples. Notes are [startTick, channel, endTick, href(s)], bars
// are [tick, null, barNumber, "bar"]. Fermatas and entries of any other shape are dropped.
func (f *Flow) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Flow, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if entry, ok := decodeEntry(r); ok {
			out = append(out, entry)
		} else {
			dropped++
		}
	}

	if dropped > 0 {
		logger.GetProjectLogger().WithFields(logrus.Fields{"dropped": dropped, "kept": len(out)}).
			Debug("Dropped flow entries that are not notes or bars")
	}

	*f = out
	return nil
}

// MarshalJSON writes the flow back in its tuple form.
func (f Flow) MarshalJSON() ([]byte, error) {
	tuples := make([][4]interface{}, 0, len(f))
	for _, e := range f {
		switch v := e.(type) {
		case NoteEvent:
			var hrefs interface{} = v.Hrefs
			if len(v.Hrefs) == 1 {
				hrefs = v.Hrefs[0]
			}
			tuples = append(tuples, [4]interface{}{v.StartTick, v.Channel, v.EndTick, hrefs})
		case BarEvent:
			tuples = append(tuples, [4]interface{}{v.Tick, nil, v.BarNumber, kindBar})
		}
	}
	return json.Marshal(tuples)
}

func decodeEntry(data json.RawMessage) (Entry, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) != 4 {
		return nil, false
	}

	tick, ok := decodeInt(fields[0])
	if !ok {
		return nil, false
	}

	if isNull(fields[1]) {
		var kind string
		if err := json.Unmarshal(fields[3], &kind); err != nil || kind != kindBar {
			// fermatas and unknown markers are not scheduled
			return nil, false
		}
		number, ok := decodeInt(fields[2])
		if !ok {
			return nil, false
		}
		return BarEvent{Tick: tick, BarNumber: int(number)}, true
	}

	channel, ok := decodeInt(fields[1])
	if !ok {
		return nil, false
	}
	end, ok := decodeInt(fields[2])
	if !ok {
		return nil, false
	}
	hrefs, ok := decodeHrefs(fields[3])
	if !ok {
		return nil, false
	}

	return NoteEvent{StartTick: tick, EndTick: end, Channel: int(channel), Hrefs: hrefs}, true
}

func decodeInt(data json.RawMessage) (int64, bool) {
	if isNull(data) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int64(math.Round(v)), true
}

func decodeHrefs(data json.RawMessage) ([]string, bool) {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return []string{single}, true
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		return many, true
	}
	return nil, false
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
