package commands

import (
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"fmt"
	"github.com/shirou/gopsutil/cpu"
	"runtime"
	"time"
)

var startApp = time.Now()

var pingShapes = []args.Shape{{MinArity: 0, MaxArity: 0}}

var pingHelp = []string{"Shows uptime and resource usage of the bot. Usage: ping"}

type Ping struct{}

func (p *Ping) Execute(_ *ports.Invocation, _ args.Arguments) *ports.AnswerType {
	uptime := time.Since(startApp)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	percent, _ := cpu.Percent(0, false)
	if len(percent) == 0 {
		percent = append(percent, 0)
	}

	return &ports.AnswerType{
		Text: []string{fmt.Sprintf("pong! uptime: %s, memory: %.2f MB, cpu: %.2f%%, goroutines: %d",
			uptime.Truncate(time.Second), float64(m.Alloc)/1024/1024, percent[0], runtime.NumGoroutine())},
		IsReply: true,
	}
}
