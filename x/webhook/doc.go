/*
Package webhook provides a destination handler that delivers executed
transactions to an HTTP endpoint.

The action is sent as a JSON encoded POST request. Any response other than
2xx, or no response within the timeout, fails the execution and reverts the
confirming call.
*/
package webhook
