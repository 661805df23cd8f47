package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/jamesfeng2009/forecastdesk/internal/backend/sandbox"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/service"
	"github.com/jamesfeng2009/forecastdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testApp wires an App over an in-memory sandbox.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	sb, err := sandbox.New(database, testutil.NewTestUoW(database), sandbox.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	desk := service.NewDesk(sb, sb.Authorization())
	return &App{Session: desk.NewSession(), Sessions: desk.SessionFactory(), Logger: zap.NewNop()}
}

func runCLI(t *testing.T, a *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type jsonEnvelope struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	Error  map[string]any `json:"error"`
}

func decodeEnvelopes(t *testing.T, out string) []jsonEnvelope {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(out))
	var envs []jsonEnvelope
	for dec.More() {
		var env jsonEnvelope
		require.NoError(t, dec.Decode(&env), out)
		envs = append(envs, env)
	}
	return envs
}

// --- submit ---

func TestSubmitCmd_FromArgs(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, "", "submit", testutil.FullOrderText)
	require.NoError(t, err)

	envs := decodeEnvelopes(t, out)
	require.Len(t, envs, 1)
	assert.Equal(t, "success", envs[0].Status)
	assert.Regexp(t, `^EV[0-9A-F]{12}CN$`, envs[0].Data["tracking_id"])
	// Chinese text is not escaped.
	assert.Contains(t, out, "深圳")
}

func TestSubmitCmd_FromStdin(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, testutil.FullOrderText+"\n", "submit")
	require.NoError(t, err)
	assert.Equal(t, "success", decodeEnvelopes(t, out)[0].Status)
}

func TestSubmitCmd_ErrorEnvelope(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, "", "submit", testutil.RouteOnlyText)

	var ee *EnvelopeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.KindMissingRequiredField, ee.Kind)

	env := decodeEnvelopes(t, out)[0]
	assert.Equal(t, "error", env.Status)
	assert.Len(t, env.Error["missing_fields"], 7)
}

func TestSubmitCmd_Pretty(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, "", "--pretty", "submit", testutil.FullOrderText)
	require.NoError(t, err)
	assert.Contains(t, out, "ORDER CREATED")
	assert.Contains(t, out, "HK_TNT")
}

func TestSubmitJSONCmd(t *testing.T) {
	a := testApp(t)
	order := `{"origin_city":"深圳","destination_city":"洛杉矶","customernumber1":"T1","consignee_countrycode":"US","consigneename":"John","consigneeaddress1":"1 Main St","consigneecity":"LA","consigneezipcode":"90001","consigneeprovince":"CA"}`

	out, err := runCLI(t, a, "", "submit-json", order)
	require.NoError(t, err)
	assert.Equal(t, false, decodeEnvelopes(t, out)[0].Data["idempotent_replay"])

	_, err = runCLI(t, a, "{}", "submit-json")
	var ee *EnvelopeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.KindMalformedInput, ee.Kind)
}

func TestBuildCmd(t *testing.T) {
	a := testApp(t)
	order := `{"origin_city":"深圳","destination_city":"洛杉矶","customernumber1":"T1","consignee_countrycode":"US","consigneename":"John","consigneeaddress1":"1 Main St","consigneecity":"LA","consigneezipcode":"90001","consigneeprovince":"CA","declare_type_name":"贸易报关"}`

	out, err := runCLI(t, a, order, "build")
	require.NoError(t, err)
	codes := decodeEnvelopes(t, out)[0].Data["codes"].(map[string]any)
	assert.Equal(t, "3", codes["declare_type"])
}

// --- draft ---

func TestDraftCmd_Session(t *testing.T) {
	a := testApp(t)
	script := strings.Join([]string{
		testutil.RouteOnlyText,
		":status",
		testutil.ConsigneeText,
		":submit",
		":last",
		":track",
		":quit",
		"never read",
	}, "\n")

	out, err := runCLI(t, a, script, "draft")
	require.NoError(t, err)

	envs := decodeEnvelopes(t, out)
	require.Len(t, envs, 6)
	assert.Equal(t, "accumulating", envs[0].Data["state"])
	assert.Equal(t, "accumulating", envs[1].Data["state"])
	assert.Equal(t, "ready", envs[2].Data["state"])
	assert.NotEmpty(t, envs[3].Data["request_id"])
	assert.NotNil(t, envs[4].Data["last_order"])
	assert.NotEmpty(t, envs[5].Data["waybillnumber"])
}

func TestDraftCmd_AutoSubmitAndErrorsContinue(t *testing.T) {
	a := testApp(t)
	script := ":submit\n" + testutil.FullOrderText + "\n:reset\n"

	out, err := runCLI(t, a, script, "draft", "--auto")
	require.NoError(t, err)

	envs := decodeEnvelopes(t, out)
	require.Len(t, envs, 3)
	assert.Equal(t, "error", envs[0].Status)
	assert.Equal(t, "success", envs[1].Status)
	assert.NotEmpty(t, envs[1].Data["tracking_id"])
	assert.Equal(t, "empty", envs[2].Data["state"])
}

// --- lookups ---

func TestTrackCmd(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, "", "track", "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", decodeEnvelopes(t, out)[0].Data["waybillnumber"])

	_, err = runCLI(t, a, "", "track", "nope")
	assert.Error(t, err)

	_, err = runCLI(t, a, "", "track")
	assert.Error(t, err)
}

func TestWaybillCmd(t *testing.T) {
	a := testApp(t)
	_, err := runCLI(t, a, "", "submit", testutil.FullOrderText)
	require.NoError(t, err)

	for _, args := range [][]string{
		{"waybill", "T1"},
		{"waybill", `["T1"]`},
		{"waybill", `{"customernumber":["T1"]}`},
		{"waybill", "T1", "T2"},
	} {
		out, err := runCLI(t, a, "", args...)
		require.NoError(t, err, args)
		recs := decodeEnvelopes(t, out)[0].Data["waybills"].([]any)
		first := recs[0].(map[string]any)
		assert.Equal(t, "T1", first["customernumber"])
		assert.NotEmpty(t, first["waybillnumber"])
	}
}

func TestOptionsCmd(t *testing.T) {
	a := testApp(t)
	out, err := runCLI(t, a, "", "--pretty", "options", "insurance")
	require.NoError(t, err)
	assert.Contains(t, out, "货物运输险")
	assert.Contains(t, out, "意外险")

	_, err = runCLI(t, a, "", "options", "nope")
	var ee *EnvelopeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, domain.KindInvalidSelection, ee.Kind)
}

func TestServeCmd_RequiresFactory(t *testing.T) {
	a := testApp(t)
	a.Sessions = nil
	_, err := runCLI(t, a, "", "serve")
	assert.ErrorContains(t, err, "no session factory")
}

func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, looksLikeJSON(` ["T1"]`))
	assert.True(t, looksLikeJSON(`{"a":1}`))
	assert.False(t, looksLikeJSON("T1"))
	assert.False(t, looksLikeJSON(""))
}
