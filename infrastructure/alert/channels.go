package alert

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// LogChannel writes alerts through the process logger.
type LogChannel struct {
	name string
	log  *zap.Logger
}

func NewLogChannel(name string, log *zap.Logger) *LogChannel {
	return &LogChannel{name: name, log: log}
}

func (c *LogChannel) Send(alert Alert) error {
	fields := []zap.Field{
		zap.String("ticker", alert.Ticker),
		zap.Time("at", alert.Timestamp),
	}
	for k, v := range alert.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch alert.Severity {
	case "CRITICAL":
		c.log.Error(alert.Message, fields...)
	case "WARNING":
		c.log.Warn(alert.Message, fields...)
	default:
		c.log.Info(alert.Message, fields...)
	}
	return nil
}

func (c *LogChannel) Name() string {
	return c.name
}

// ConsoleChannel prints alerts to stdout with ANSI severity colors.
type ConsoleChannel struct {
	name string
}

func NewConsoleChannel(name string) *ConsoleChannel {
	return &ConsoleChannel{name: name}
}

func (c *ConsoleChannel) Send(alert Alert) error {
	const reset = "\033[0m"
	color := reset
	switch alert.Severity {
	case "INFO":
		color = "\033[32m"
	case "WARNING":
		color = "\033[33m"
	case "CRITICAL":
		color = "\033[31m"
	}

	msg := fmt.Sprintf("%s[%s]%s %s %s - %s",
		color,
		alert.Severity,
		reset,
		alert.Timestamp.Format("2006-01-02 15:04:05"),
		alert.Ticker,
		alert.Message,
	)
	if len(alert.Fields) > 0 {
		msg += " |"
		for k, v := range alert.Fields {
			msg += fmt.Sprintf(" %s=%v", k, v)
		}
	}

	fmt.Println(msg)
	return nil
}

func (c *ConsoleChannel) Name() string {
	return c.name
}

// MemoryChannel records alerts for tests.
type MemoryChannel struct {
	name      string
	shouldErr bool

	mu     sync.Mutex
	alerts []Alert
}

func NewMemoryChannel(name string) *MemoryChannel {
	return &MemoryChannel{name: name}
}

func (c *MemoryChannel) Send(alert Alert) error {
	if c.shouldErr {
		return fmt.Errorf("channel down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, alert)
	return nil
}

func (c *MemoryChannel) Name() string {
	return c.name
}

func (c *MemoryChannel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

func (c *MemoryChannel) Alerts() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}

func (c *MemoryChannel) SetError(on bool) {
	c.shouldErr = on
}
