//go:build !portaudio

package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func openPortAudio(Config, logrus.FieldLogger) (Device, error) {
	return nil, fmt.Errorf("%w: %s (rebuild with -tags portaudio)", ErrBackendUnavailable, BackendPortAudio)
}
