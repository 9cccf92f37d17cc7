package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager fans notification messages out to every registered notifier
type Manager struct {
	notifiers map[string]Notifier
	mutex     sync.RWMutex
	log       zerolog.Logger
}

// NewManager creates a new notification manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		notifiers: make(map[string]Notifier),
		log:       log.With().Str("component", "notification").Logger(),
	}
}

// AddNotifier adds a notifier under the given name, replacing any previous one
func (m *Manager) AddNotifier(name string, notifier Notifier) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.notifiers[name] = notifier
	m.log.Info().Str("name", name).Str("channel", string(notifier.GetChannelType())).Msg("Added notifier")
}

// Len returns the number of registered notifiers
func (m *Manager) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.notifiers)
}

// SendNotification sends a notification to all configured channels
func (m *Manager) SendNotification(message *Message) []NotificationResult {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var wg sync.WaitGroup
	resultChan := make(chan NotificationResult, len(m.notifiers))

	for name, notifier := range m.notifiers {
		wg.Add(1)
		go func(name string, n Notifier) {
			defer wg.Done()

			result := NotificationResult{
				Channel: n.GetChannelType(),
				Name:    name,
				SentAt:  time.Now(),
			}

			if err := n.Send(message); err != nil {
				result.Error = err.Error()
				m.log.Error().Err(err).Str("name", name).Str("channel", string(n.GetChannelType())).Msg("Failed to send notification")
			} else {
				result.Success = true
				m.log.Debug().Str("name", name).Str("channel", string(n.GetChannelType())).Msg("Sent notification")
			}

			resultChan <- result
		}(name, notifier)
	}

	wg.Wait()
	close(resultChan)

	results := make([]NotificationResult, 0, len(m.notifiers))
	for result := range resultChan {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	return results
}

func sortedKeys(fields map[string]interface{}) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
