package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/masa-finance/jet"
	"github.com/masa-finance/jet/httpwrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func methodCmd(o *options, method string) *cobra.Command {
	use := method + " <url>"
	validate := cobra.ExactArgs(1)
	if method != "get" {
		use += " [json-body]"
		validate = cobra.RangeArgs(1, 2)
	}
	return &cobra.Command{
		Use:   use,
		Short: "Send a " + strings.ToUpper(method) + " request",
		Args:  validate,
		RunE: func(cmd *cobra.Command, args []string) error {
			var body string
			if len(args) > 1 {
				body = args[1]
			}
			return o.run(cmd, method, args[0], body)
		},
	}
}

func requestCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "request <method> <url> [json-body]",
		Short: "Send a request with any method",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body string
			if len(args) > 2 {
				body = args[2]
			}
			return o.run(cmd, args[0], args[1], body)
		},
	}
}

func (o *options) run(cmd *cobra.Command, method, target, body string) error {
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return err
	}
	var payload any
	if body != "" {
		if !json.Valid([]byte(body)) {
			return fmt.Errorf("body is not valid JSON: %s", body)
		}
		payload = json.RawMessage(body)
	}

	client, err := o.client(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	logrus.WithField("base_url", client.BaseURL()).Debug("Sending request")

	resp, err := client.Custom(cmd.Context(), target, method, payload, headers, nil)
	if err != nil {
		return err
	}

	if err := o.print(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if !o.fail {
		return nil
	}
	err = resp.Err()
	var httpErr *httpwrap.HTTPError
	if o.verbose && errors.As(err, &httpErr) {
		httpErr.Log()
	}
	return err
}

func (o *options) print(w io.Writer, resp *jet.Response) error {
	if o.query != "" {
		fmt.Fprintln(w, resp.Get(o.query).String())
		return nil
	}

	statusColor := color.New(color.FgGreen, color.Bold)
	switch code := resp.StatusCode(); {
	case code >= 400:
		statusColor = color.New(color.FgRed, color.Bold)
	case code >= 300:
		statusColor = color.New(color.FgYellow, color.Bold)
	}
	statusColor.Fprintln(w, resp.Response.Status)

	if resp.Data == nil {
		return nil
	}
	out, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}
