package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vearne/asyncpcap/biz"
	"github.com/vearne/asyncpcap/capture"
	"github.com/vearne/asyncpcap/config"
	"github.com/vearne/asyncpcap/consts"
	slog "github.com/vearne/simplelog"
)

const banner string = `
   ___   ____ __  ______  _____ ___   ___ 
  / _ | / __/ \ \/ / _ \/ ___// _ \ / _ |
 / __ |_\ \    \  / // / /__ / ___// __ |
/_/ |_/___/    /_/_//_/\___//_/   /_/ |_|
`

var settings config.AppSettings
var version bool

func init() {
	flag.BoolVar(&version, "version", false,
		"print version")

	flag.DurationVar(&settings.ExitAfter, "exit-after", 0, "exit after specified duration")

	// #################### input ######################
	flag.StringVar(&settings.Device, "device", "",
		`Capture from the given device. A name, a name prefix ending in '*' or an IP address.
                # Capture from the first usable device
                asyncpcap --output-stdout
                # Capture from eth0
                asyncpcap --device=eth0 --output-stdout
               `)

	flag.Var(&config.MultiStringOption{Params: &settings.IgnoreInterface}, "ignore-interface",
		`Never pick this device when --device is empty, e.g. --ignore-interface=docker0`)

	flag.BoolVar(&settings.ListDevices, "list-devices", false, "print the capture devices and exit")

	flag.StringVar(&settings.PcapFile, "pcap-file", "",
		`Replay a pcap or pcapng file instead of a live device:
                asyncpcap --pcap-file=/tmp/dump.pcap --output-stdout`)

	flag.BoolVar(&settings.Promiscuous, "promisc", true, "")
	settings.Snaplen = capture.DefaultSnaplen
	flag.Var(&settings.Snaplen, "snaplen", "bytes captured per packet, e.g. 1500, 64kb")
	flag.DurationVar(&settings.Timeout, "timeout", capture.DefaultTimeout,
		"read timeout, bounds how long a stop request waits to be noticed")
	flag.BoolVar(&settings.Immediate, "immediate", true, "deliver packets as soon as they arrive")
	flag.Var(&settings.BufferSize, "buffer-size", "kernel buffer size, e.g. 8mb. 0 keeps the default")
	flag.StringVar(&settings.TimestampType, "timestamp-type", "",
		`pcap timestamp source, or "go" to stamp packets with the local clock`)
	flag.IntVar(&settings.QueueCapacity, "queue-capacity", 0,
		"max packets buffered between capture and output, 0 means unbounded")

	// #################### output ######################
	flag.BoolVar(&settings.OutputStdout, "output-stdout", true,
		"Just prints data to console")

	flag.StringVar(&settings.Codec, "codec", "simple", "simple or json")

	flag.IntVar(&settings.Count, "count", 0, "stop after writing this many packets")

	flag.IntVar(&settings.IncludeFilterMinLength, "include-filter-min-length", 0,
		"drop packets shorter than this on the wire")
	flag.IntVar(&settings.IncludeFilterMaxLength, "include-filter-max-length", 0,
		"drop packets longer than this on the wire, 0 means no limit")
	flag.BoolVar(&settings.ExcludeFilterTruncated, "exclude-filter-truncated", false,
		"drop packets cut by the snaplen")

	flag.IntVar(&settings.RateLimitQPS, "rate-limit-qps", -1,
		"packets written per second, -1 means no limit")
}

func main() {
	fmt.Print(banner)

	adjustLogLevel()

	flag.Parse()
	if version {
		fmt.Println("service: asyncpcap")
		fmt.Println("Version", consts.Version)
		fmt.Println("BuildTime", consts.BuildTime)
		fmt.Println("GitTag", consts.GitTag)
		return
	}

	if settings.ListDevices {
		listDevices()
		return
	}

	printSettings(&settings)

	src, name, err := openSource(&settings)
	if err != nil {
		slog.Fatal("open capture source error:%v", err)
	}

	filterChain, err := biz.NewFilterChain(&settings)
	if err != nil {
		slog.Fatal("create FilterChain error:%v", err)
	}
	emitter := biz.NewEmitter(filterChain, biz.NewRateLimit(&settings), settings.Count)
	plugins := biz.NewPlugins(&settings, src, name)

	slog.Info("plugins:%v", plugins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emitter.Start(ctx, plugins)

	drained := make(chan struct{})
	go func() {
		emitter.Wait()
		close(drained)
	}()

	closeCh := make(chan int)
	if settings.ExitAfter > 0 {
		slog.Info("Running asyncpcap for a duration of %s", settings.ExitAfter)

		time.AfterFunc(settings.ExitAfter, func() {
			slog.Info("run timeout %s", settings.ExitAfter)
			close(closeCh)
		})
	}
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	exit := 0
	select {
	case <-c:
		exit = 1
		emitter.Stop()
	case <-closeCh:
		emitter.Stop()
	case <-drained:
	}

	// a second signal skips the drain
	select {
	case <-drained:
	case <-c:
		slog.Warn("interrupted again, dropping buffered packets")
		cancel()
		exit = 1
	}
	emitter.Close()
	slog.Info("written %d packets", emitter.Written())
	os.Exit(exit)
}

func openSource(settings *config.AppSettings) (capture.Source, string, error) {
	if settings.PcapFile != "" {
		src, err := capture.OpenFile(settings.PcapFile)
		return src, settings.PcapFile, err
	}

	dev, err := capture.FindDevice(settings.Device, settings.IgnoreInterface)
	if err != nil {
		return nil, "", err
	}
	opts := capture.PcapOptions{
		Promiscuous:   settings.Promiscuous,
		Snaplen:       int(settings.Snaplen.Int()),
		Timeout:       settings.Timeout,
		Immediate:     settings.Immediate,
		BufferSize:    settings.BufferSize,
		TimestampType: settings.TimestampType,
	}
	handle, err := capture.OpenLive(dev.Name, opts)
	if err != nil {
		return nil, "", err
	}
	return handle, dev.Name, nil
}

func listDevices() {
	devs, err := capture.ListDevices()
	if err != nil {
		slog.Fatal("list devices error:%v", err)
	}
	for _, dev := range devs {
		var addrs []string
		for _, a := range dev.Addresses {
			addrs = append(addrs, a.IP.String())
		}
		fmt.Printf("%s\t%s\t%v\n", dev.Name, dev.Description, addrs)
	}
}

func printSettings(settings *config.AppSettings) {
	slog.Info("device, %v", settings.Device)
	slog.Info("ignore-interface, %v", settings.IgnoreInterface)
	slog.Info("pcap-file, %v", settings.PcapFile)
	slog.Info("snaplen, %v", settings.Snaplen)
	slog.Info("timeout, %v", settings.Timeout)
	slog.Info("queue-capacity, %v", settings.QueueCapacity)

	slog.Info("output-stdout, %v", settings.OutputStdout)
	slog.Info("codec, %v", settings.Codec)
	slog.Info("count, %v", settings.Count)
	slog.Info("rate-limit-qps, %v", settings.RateLimitQPS)
}

func adjustLogLevel() {
	logLevel := os.Getenv("SIMPLE_LOG_LEVEL")
	if len(logLevel) > 0 {
		return
	}
	slog.SetLevel(slog.InfoLevel)
}
