package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vesting-dashboard/api"
	"vesting-dashboard/chain"
	"vesting-dashboard/core"
	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

type settings struct {
	network    string
	rpcUrl     string
	contract   string
	symbol     string
	refresh    time.Duration
	privateKey string
	keystore   string
}

// resolve fills whatever was not given explicitly from the network preset.
func (s *settings) resolve() (model.Network, error) {
	n, err := model.LookupNetwork(s.network)
	if err != nil {
		return n, err
	}
	if s.rpcUrl != "" {
		n.RpcUrl = s.rpcUrl
	}
	if s.contract != "" {
		if !common.IsHexAddress(s.contract) {
			return n, fmt.Errorf("invalid contract address %q", s.contract)
		}
		n.VestingAddress = common.HexToAddress(s.contract)
	}
	if s.symbol != "" {
		n.TokenSymbol = s.symbol
	}
	if s.refresh > 0 {
		n.RefreshInterval = uint64(s.refresh / time.Second)
	}
	if n.RpcUrl == "" {
		return n, fmt.Errorf("no rpc url for network %s", n.Name)
	}
	if n.VestingAddress == (common.Address{}) {
		return n, fmt.Errorf("no vesting contract address for network %s", n.Name)
	}
	return n, nil
}

func (s *settings) signer(interactive bool) (chain.Signer, error) {
	var (
		key *chain.KeySigner
		err error
	)
	switch {
	case s.privateKey != "":
		key, err = chain.NewKeySignerFromHex(s.privateKey)
	case s.keystore != "":
		var pass string
		if pass, err = readPassphrase(s.keystore); err == nil {
			key, err = chain.NewKeySignerFromKeystore(s.keystore, pass)
		}
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if interactive {
		return &chain.ConfirmSigner{Signer: key, Confirm: terminalConfirm}, nil
	}
	return key, nil
}

func signals() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		logrus.Infof("received %v, shutting down", s)
		cancel()
	}()
	return ctx
}

func main() {
	var s settings
	app := kingpin.New("vesting-dashboard", "Token vesting dashboard and release tool.")
	app.HelpFlag.Short('h')
	logLevel := app.Flag("log-level", "log level").Default("info").Envar("VESTING_LOG_LEVEL").Enum("debug", "info", "warn", "error")
	logJson := app.Flag("log-json", "log in json format").Bool()
	app.Flag("network", "network preset").Default("testnet").Envar("VESTING_NETWORK").Short('n').StringVar(&s.network)
	app.Flag("rpc", "json-rpc endpoint, overrides the preset").Envar("VESTING_RPC_URL").StringVar(&s.rpcUrl)
	app.Flag("contract", "vesting contract address, overrides the preset").Envar("VESTING_CONTRACT").StringVar(&s.contract)
	app.Flag("symbol", "token symbol").Envar("VESTING_SYMBOL").StringVar(&s.symbol)
	app.Flag("private-key", "hex private key of the beneficiary").Envar("VESTING_PRIVATE_KEY").StringVar(&s.privateKey)
	app.Flag("keystore", "keystore file of the beneficiary, ignored if private-key is set").Envar("VESTING_KEYSTORE").Short('k').StringVar(&s.keystore)

	serveCmd := app.Command("serve", "run the dashboard http api")
	httpAddr := serveCmd.Flag("addr", "listen address").Default(":8080").Envar("VESTING_HTTP_ADDR").String()
	serveCmd.Flag("refresh", "view refresh interval").Envar("VESTING_REFRESH").DurationVar(&s.refresh)
	rateLimit := serveCmd.Flag("rate-limit", "requests per minute per client, 0 disables").Default("120").Int()

	overviewCmd := app.Command("overview", "show a beneficiary's summary and schedules")
	overviewAddr := overviewCmd.Arg("address", "beneficiary address").Required().String()
	overviewCategory := overviewCmd.Flag("category", "only show schedules of this category").String()

	statsCmd := app.Command("stats", "show contract-wide totals")

	progressCmd := app.Command("progress", "show the contract's progress for one schedule")
	progressId := progressCmd.Arg("id", "schedule id").Required().String()

	estimateCmd := app.Command("estimate", "estimate the releasable amount of a schedule offline")
	estTotal := estimateCmd.Flag("total", "total amount in tokens").Required().String()
	estReleased := estimateCmd.Flag("released", "released amount in tokens").Default("0").String()
	estStart := estimateCmd.Flag("start", "start, unix seconds").Required().Uint64()
	estDuration := estimateCmd.Flag("duration", "duration in seconds").Required().Uint64()
	estCliff := estimateCmd.Flag("cliff", "cliff offset from start in seconds").Default("0").Uint64()
	estRevoked := estimateCmd.Flag("revoked", "schedule is revoked").Bool()
	estNow := estimateCmd.Flag("at", "evaluate at this unix time instead of now").Int64()

	releaseCmd := app.Command("release", "release vested tokens of one of your schedules")
	releaseId := releaseCmd.Arg("id", "schedule id").Required().String()
	releaseAmount := releaseCmd.Flag("amount", "amount in tokens, everything releasable if empty").String()
	releaseYes := releaseCmd.Flag("yes", "do not ask for confirmation").Short('y').Bool()
	releaseWait := releaseCmd.Flag("wait", "how long to wait for the receipt").Default("5m").Duration()

	command, err := app.Parse(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("%s, try --help", err)
	}
	initLog(*logLevel, *logJson)

	if command == estimateCmd.FullCommand() {
		now := time.Now().Unix()
		if *estNow > 0 {
			now = *estNow
		}
		app.FatalIfError(estimate(*estTotal, *estReleased, *estStart, *estDuration, *estCliff, *estRevoked, now), "estimate")
		return
	}

	network, err := s.resolve()
	app.FatalIfError(err, "config")
	client, err := chain.NewVestingClient(network.RpcUrl, network.VestingAddress)
	app.FatalIfError(err, "connect %s", network.RpcUrl)
	logrus.Infof("network %s, rpc %s, contract %s", network.Name, network.RpcUrl, client.Contract().Hex())

	ctx := signals()
	out := printer{symbol: network.TokenSymbol}

	switch command {
	case serveCmd.FullCommand():
		signer, err := s.signer(false)
		app.FatalIfError(err, "signer")
		dash := core.NewDashboard(client, signer, core.Options{
			RefreshInterval: time.Duration(network.RefreshInterval) * time.Second,
		})
		server := api.NewServer(dash, api.Config{Symbol: network.TokenSymbol, RateLimit: *rateLimit})
		go dash.Run(ctx)
		go func() {
			<-ctx.Done()
			if err := server.Shutdown(); err != nil {
				logrus.Errorf("shutdown err: %v", err)
			}
		}()
		if err := server.Listen(*httpAddr); err != nil {
			logrus.Fatalf("http api: %v", err)
		}

	case overviewCmd.FullCommand():
		addr, err := parseAddress(*overviewAddr)
		app.FatalIfError(err, "overview")
		dash := core.NewDashboard(client, nil, core.Options{})
		view, err := dash.Beneficiary(ctx, addr)
		app.FatalIfError(err, "overview")
		schedules := view.Schedules
		if *overviewCategory != "" {
			category, ok := model.ParseCategory(*overviewCategory)
			if !ok {
				app.Fatalf("unknown category %s", *overviewCategory)
			}
			schedules = view.ByCategory(category)
		}
		out.summary(view)
		out.cards(dash.Cards(schedules))

	case statsCmd.FullCommand():
		stats, err := core.NewDashboard(client, nil, core.Options{}).GlobalStats(ctx)
		app.FatalIfError(err, "stats")
		out.stats(stats)

	case progressCmd.FullCommand():
		id, err := parseScheduleId(*progressId)
		app.FatalIfError(err, "progress")
		p, err := client.GetVestingProgress(ctx, id)
		app.FatalIfError(err, "progress")
		out.progress(p)

	case releaseCmd.FullCommand():
		id, err := parseScheduleId(*releaseId)
		app.FatalIfError(err, "release")
		signer, err := s.signer(!*releaseYes)
		app.FatalIfError(err, "signer")
		if signer == nil {
			app.Fatalf("release needs --private-key or --keystore")
		}
		dash := core.NewDashboard(client, signer, core.Options{ConfirmTimeout: *releaseWait})
		// load the view so an unknown schedule is caught before signing
		_, err = dash.Beneficiary(ctx, signer.Address())
		app.FatalIfError(err, "release")
		ticket, err := dash.Release(ctx, signer.Address(), id, *releaseAmount)
		app.FatalIfError(err, "release")
		fmt.Printf("submitted %s, releasing %s\n", ticket.TxHash.Hex(), out.amount(ticket.Amount))
		pending := time.NewTicker(15 * time.Second)
	wait:
		for {
			select {
			case <-pending.C:
				fmt.Printf("waiting for %s\n", ticket.TxHash.Hex())
			case <-ticket.Done():
				break wait
			case <-ctx.Done():
				break wait
			}
		}
		pending.Stop()
		receipt, err := ticket.Wait(ctx)
		app.FatalIfError(err, "release %s", ticket.TxHash.Hex())
		fmt.Printf("confirmed in block %d, gas used %d\n", receipt.BlockNumber, receipt.GasUsed)
	}
}

func initLog(level string, json bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stderr)
}

func estimate(total, released string, start, duration, cliff uint64, revoked bool, now int64) error {
	t, err := model.ParseTokenAmount(total)
	if err != nil {
		return err
	}
	r, err := model.ParseTokenAmount(released)
	if err != nil {
		return err
	}
	if now < 0 {
		now = 0
	}
	s := &model.VestingSchedule{
		Initialized: true,
		Cliff:       new(big.Int).SetUint64(cliff),
		Start:       new(big.Int).SetUint64(start),
		Duration:    new(big.Int).SetUint64(duration),
		AmountTotal: t,
		Released:    r,
		Revoked:     revoked,
	}
	p := vesting.EstimateProgress(s, uint64(now))
	out := printer{}
	out.progress(&p)
	fmt.Printf("remaining:  %s\n", model.FormatDuration(vesting.RemainingSeconds(s, uint64(now))))
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseScheduleId(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid schedule id %q", s)
	}
	return common.BytesToHash(b), nil
}
