package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/CodedInternet/gominer/comms"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/abiosoft/ishell/v2"
	"github.com/pkg/errors"
)

type shellCmd struct {
	name string
	help string
	verb mechatronics.Verb
}

// verbs reachable by a bare shell word
var shellVerbs = []shellCmd{
	{"brake", "brake", mechatronics.Brake},
	{"dump", "dump", mechatronics.Dump},
	{"reset", "reset", mechatronics.ResetDumper},
	{"stopdumper", "stopdumper", mechatronics.StopDumper},
	{"dig", "dig", mechatronics.Dig},
	{"stopdigger", "stopdigger", mechatronics.StopDigger},
	{"raise", "raise", mechatronics.Raise},
	{"lower", "lower", mechatronics.Lower},
	{"stopactuators", "stopactuators", mechatronics.StopActuators},
	{"kill", "kill", mechatronics.Kill},
	{"revive", "revive", mechatronics.Revive},
}

func queued(id fmt.Stringer) string {
	return fmt.Sprintf("queued %s", id)
}

// runShellCommand executes one shell line through the conductor and returns
// what to print.
func runShellCommand(conductor *comms.Conductor, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("no command given")
	}
	name, args := args[0], args[1:]

	switch name {
	case "status":
		b, err := json.MarshalIndent(conductor.State(), "", "  ")
		return string(b), err

	case "mode":
		if len(args) != 1 {
			return "", errors.New("usage: mode <drive|dump|dig>")
		}
		v, ok := modeVerbs[args[0]]
		if !ok {
			return "", errors.Errorf("no such mode %q", args[0])
		}
		id, err := conductor.ProcessCommand(comms.Cmd{Cmd: v.String()})
		if err != nil {
			return "", err
		}
		return queued(id), nil

	case "drive":
		if len(args) != 2 {
			return "", errors.New("usage: drive <left> <right>")
		}
		left, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return "", errors.Wrap(err, "left")
		}
		right, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", errors.Wrap(err, "right")
		}
		id, err := conductor.ProcessCommand(comms.Cmd{Cmd: mechatronics.Drive.String(), Left: &left, Right: &right})
		if err != nil {
			return "", err
		}
		return queued(id), nil
	}

	for _, sc := range shellVerbs {
		if sc.name != name {
			continue
		}
		if len(args) != 0 {
			return "", errors.Errorf("%s takes no arguments", name)
		}
		id, err := conductor.ProcessCommand(comms.Cmd{Cmd: sc.verb.String()})
		if err != nil {
			return "", err
		}
		return queued(id), nil
	}

	return "", errors.Errorf("unknown command %q", name)
}

func newShell(conductor *comms.Conductor) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Miner development shell")
	shell.ShowPrompt(true)

	add := func(name, help string, completer func([]string) []string) {
		shell.AddCmd(&ishell.Cmd{
			Name:      name,
			Help:      help,
			Completer: completer,
			Func: func(c *ishell.Context) {
				out, err := runShellCommand(conductor, append([]string{name}, c.Args...))
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(out)
			},
		})
	}

	modes := func([]string) []string {
		return []string{"drive", "dump", "dig"}
	}

	add("status", "status", nil)
	add("mode", "mode <drive|dump|dig>", modes)
	add("drive", "drive <left> <right>", nil)
	for _, sc := range shellVerbs {
		add(sc.name, sc.help, nil)
	}

	return shell
}
