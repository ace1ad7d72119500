package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/mvdh/robohost/pkg/device"
)

type ProbeCommand struct {
	Args struct {
		Device string `positional-arg-name:"device" description:"Device path or symlink; omit to list serial ports"`
	} `positional-args:"yes"`
}

func (c *ProbeCommand) Execute(args []string) error {
	if c.Args.Device == "" {
		return listPorts()
	}

	port, err := filepath.EvalSymlinks(c.Args.Device)
	if err != nil {
		fatalf("resolve %s: %v", c.Args.Device, err)
	}
	fmt.Printf("Probing %s", port)
	if port != c.Args.Device {
		fmt.Printf(" (via %s)", c.Args.Device)
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		fatalf("open bus on %s: %v", port, err)
	}
	defer bus.Close()

	// SO-101 arms carry six servos with IDs 1-6.
	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		fatalf("scan %s: %v", port, err)
	}

	found := make(map[int]bool, len(servos))
	for _, s := range servos {
		found[s.ID] = true
	}

	var missing []int
	for id := 1; id <= 6; id++ {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		fmt.Println(successStyle.Render("Device answers as a complete SO-101 arm (servos 1-6)"))
		return nil
	}
	fmt.Println(warnStyle.Render(fmt.Sprintf("Found %d servo(s), missing IDs %v", len(servos), missing)))
	fmt.Println("This does not look like a complete SO-101 arm.")
	return fmt.Errorf("incomplete arm on %s", port)
}

func listPorts() error {
	ports, err := device.SerialPortLister{}.List()
	if err != nil {
		fatalf("list serial ports: %v", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}
	fmt.Println("Serial ports:")
	for _, p := range ports {
		fmt.Println("  - " + p)
	}
	return nil
}
