package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"odkey/hidtransport"
	"odkey/httptransport"
	"odkey/odkeyscript"
	"odkey/protocol"
	"odkey/protocol/nvscodec"
)

// logger reports CLI progress and errors to stderr, matching the
// original tooling's print-as-you-go style for long-running transfers.
var logger = log.New(os.Stderr, "odkey: ", 0)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "disassemble":
		err = runDisassemble(os.Args[2:])
	case "upload":
		err = runUpload(os.Args[2:])
	case "download":
		err = runDownload(os.Args[2:])
	case "execute":
		err = runExecute(os.Args[2:])
	case "nvs-set":
		err = runNVSSet(os.Args[2:])
	case "nvs-get":
		err = runNVSGet(os.Args[2:])
	case "nvs-delete":
		err = runNVSDelete(os.Args[2:])
	case "log":
		err = runLog(os.Args[2:])
	case "log-clear":
		err = runLogClear(os.Args[2:])
	case "list-devices":
		err = runListDevices(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		switch e := err.(type) {
		case *odkeyscript.SyntaxError:
			logger.Printf("error at line %d, column %d: %s", e.Line, e.Column, e.Message)
		case *odkeyscript.SemanticError:
			logger.Printf("error at line %d, column %d: %s", e.Line, e.Column, e.Message)
		default:
			logger.Println("error:", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: odkey <command> [arguments]")
	fmt.Println("Commands: compile, disassemble, upload, download, execute,")
	fmt.Println("          nvs-set, nvs-get, nvs-delete, log, log-clear, list-devices")
}

// connFlags holds the transport-selection flags shared by every
// command that talks to a device.
type connFlags struct {
	useHTTP bool
	host    string
	port    int
	token   string
	vid     uint
	pid     uint
}

func registerConnFlags(fs *flag.FlagSet) *connFlags {
	c := &connFlags{}
	fs.BoolVar(&c.useHTTP, "http", false, "use the HTTP transport instead of HID")
	fs.StringVar(&c.host, "host", "", "device host/IP (HTTP transport)")
	fs.IntVar(&c.port, "port", 80, "device HTTP port")
	fs.StringVar(&c.token, "token", "", "bearer token for the HTTP transport")
	fs.UintVar(&c.vid, "vid", protocol.DefaultUSBVendorID, "USB vendor ID (HID transport)")
	fs.UintVar(&c.pid, "pid", protocol.DefaultUSBProductID, "USB product ID (HID transport)")
	return c
}

func (c *connFlags) open() (protocol.Transport, error) {
	if c.useHTTP {
		if c.host == "" {
			return nil, fmt.Errorf("-host is required with -http")
		}
		return httptransport.Open(c.host, c.port, c.token), nil
	}
	return hidtransport.Open(uint16(c.vid), uint16(c.pid))
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	out := fs.String("o", "", "output file (defaults to stdout)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: odkey compile [-o out.bin] <source.odk>")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return protocol.NewIoError("reading source file", err)
	}

	bytecode, err := odkeyscript.Compile(string(src))
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = os.Stdout.Write(bytecode)
		return err
	}
	return os.WriteFile(*out, bytecode, 0o644)
}

func runDisassemble(args []string) error {
	fs := flag.NewFlagSet("disassemble", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: odkey disassemble <bytecode.bin>")
	}

	bytecode, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return protocol.NewIoError("reading bytecode file", err)
	}

	for _, line := range odkeyscript.Disassemble(bytecode) {
		fmt.Println(line)
	}
	return nil
}

func runUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	target := fs.String("target", "flash", "program target: flash or ram")
	conn := registerConnFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: odkey upload [-target flash|ram] <source.odk>")
	}

	tgt, err := protocol.ParseTarget(*target)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return protocol.NewIoError("reading source file", err)
	}

	bytecode, err := odkeyscript.Compile(string(src))
	if err != nil {
		return err
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	logger.Printf("uploading %d bytes to %s", len(bytecode), tgt)
	if err := tr.UploadProgram(context.Background(), tgt, bytecode); err != nil {
		return err
	}
	logger.Printf("upload to %s complete", tgt)
	return nil
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	target := fs.String("target", "flash", "program target: flash or ram")
	out := fs.String("o", "", "output file (defaults to stdout)")
	conn := registerConnFlags(fs)
	fs.Parse(args)

	tgt, err := protocol.ParseTarget(*target)
	if err != nil {
		return err
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	logger.Printf("downloading %s program", tgt)
	bytecode, err := tr.DownloadProgram(context.Background(), tgt)
	if err != nil {
		return err
	}
	logger.Printf("downloaded %d bytes", len(bytecode))

	if *out == "" {
		_, err = os.Stdout.Write(bytecode)
		return err
	}
	return os.WriteFile(*out, bytecode, 0o644)
}

func runExecute(args []string) error {
	fs := flag.NewFlagSet("execute", flag.ExitOnError)
	target := fs.String("target", "flash", "program target: flash or ram")
	conn := registerConnFlags(fs)
	fs.Parse(args)

	tgt, err := protocol.ParseTarget(*target)
	if err != nil {
		return err
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	return tr.ExecuteProgram(context.Background(), tgt)
}

func runNVSSet(args []string) error {
	fs := flag.NewFlagSet("nvs-set", flag.ExitOnError)
	typ := fs.String("type", "", "value type: u8,i8,u16,i16,u32,i32,u64,i64,string,blob")
	file := fs.String("file", "", "read the blob value from this file instead of argv")
	conn := registerConnFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: odkey nvs-set -type T <key> [value]")
	}
	key := fs.Arg(0)

	nvsType, err := protocol.ParseNVSType(*typ)
	if err != nil {
		return err
	}

	value, err := encodeNVSArg(nvsType, fs.Args()[1:], *file)
	if err != nil {
		return err
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	return tr.NVSSet(context.Background(), key, protocol.NVSValue{Type: nvsType, Raw: value})
}

func encodeNVSArg(typ protocol.NVSType, rest []string, file string) ([]byte, error) {
	if typ == protocol.NVSTypeBlob {
		if file == "" {
			return nil, fmt.Errorf("-file is required for blob values")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, protocol.NewIoError("reading blob file", err)
		}
		return nvscodec.EncodeBlob(data)
	}

	if len(rest) != 1 {
		return nil, fmt.Errorf("expected exactly one value argument")
	}

	switch typ {
	case protocol.NVSTypeString:
		return nvscodec.EncodeString(rest[0])
	case protocol.NVSTypeU8, protocol.NVSTypeU16, protocol.NVSTypeU32, protocol.NVSTypeU64:
		n, err := strconv.ParseUint(rest[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned integer: %w", err)
		}
		return nvscodec.EncodeUint(typ, n)
	default:
		n, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid signed integer: %w", err)
		}
		return nvscodec.EncodeInt(typ, n)
	}
}

func runNVSGet(args []string) error {
	fs := flag.NewFlagSet("nvs-get", flag.ExitOnError)
	conn := registerConnFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: odkey nvs-get <key>")
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	value, err := tr.NVSGet(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Println(formatNVSValue(value))
	return nil
}

func formatNVSValue(value protocol.NVSValue) string {
	switch value.Type {
	case protocol.NVSTypeU8, protocol.NVSTypeU16, protocol.NVSTypeU32, protocol.NVSTypeU64:
		n, err := nvscodec.DecodeUint(value.Type, value.Raw)
		if err != nil {
			return fmt.Sprintf("<%s: decode error: %v>", value.Type, err)
		}
		return fmt.Sprintf("%s: %d", value.Type, n)
	case protocol.NVSTypeI8, protocol.NVSTypeI16, protocol.NVSTypeI32, protocol.NVSTypeI64:
		n, err := nvscodec.DecodeInt(value.Type, value.Raw)
		if err != nil {
			return fmt.Sprintf("<%s: decode error: %v>", value.Type, err)
		}
		return fmt.Sprintf("%s: %d", value.Type, n)
	case protocol.NVSTypeString:
		return fmt.Sprintf("string: %q", nvscodec.DecodeString(value.Raw))
	default:
		return fmt.Sprintf("blob: %d bytes", len(value.Raw))
	}
}

func runNVSDelete(args []string) error {
	fs := flag.NewFlagSet("nvs-delete", flag.ExitOnError)
	conn := registerConnFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: odkey nvs-delete <key>")
	}

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	return tr.NVSDelete(context.Background(), fs.Arg(0))
}

func runLog(args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	conn := registerConnFlags(fs)
	fs.Parse(args)

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	return tr.DownloadLogs(context.Background(), func(chunk protocol.LogChunk) error {
		_, err := os.Stdout.Write(chunk.Data)
		return err
	})
}

func runLogClear(args []string) error {
	fs := flag.NewFlagSet("log-clear", flag.ExitOnError)
	conn := registerConnFlags(fs)
	fs.Parse(args)

	tr, err := conn.open()
	if err != nil {
		return err
	}
	defer tr.Close()

	return tr.ClearLogs(context.Background())
}

func runListDevices(args []string) error {
	fs := flag.NewFlagSet("list-devices", flag.ExitOnError)
	vid := fs.Uint("vid", protocol.DefaultUSBVendorID, "USB vendor ID")
	pid := fs.Uint("pid", protocol.DefaultUSBProductID, "USB product ID")
	fs.Parse(args)

	devices, err := hidtransport.List(uint16(*vid), uint16(*pid))
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("no devices found")
		return nil
	}
	for _, d := range devices {
		fmt.Printf("%s %s (path=%s)\n", d.Manufacturer, d.Product, d.Path)
	}
	return nil
}
