package main

import "time"

type MessageCounter struct {
	Success  int
	Failed   int
	Duration int64
	started  time.Time
}

func InitMessageCounter() *MessageCounter {
	return &MessageCounter{
		started: time.Now(),
	}
}

func (c *MessageCounter) IncreaseCounter(success bool) {
	if success {
		c.Success++
	} else {
		c.Failed++
	}
}

func (c *MessageCounter) Stop() {
	c.Duration = int64(time.Since(c.started).Seconds())
}
