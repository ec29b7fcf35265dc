package httptransport

import "expvar"

var (
	metricToggleTotal  = expvar.NewInt("agent_toggle_total")
	metricToggleErrors = expvar.NewInt("agent_toggle_errors_total")

	metricSettingsSaveTotal  = expvar.NewInt("settings_save_total")
	metricSettingsSaveErrors = expvar.NewInt("settings_save_errors_total")

	metricFaucetTotal  = expvar.NewInt("faucet_request_total")
	metricFaucetErrors = expvar.NewInt("faucet_request_errors_total")
)
