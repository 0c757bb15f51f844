// Package models provides rate equations for the ode engine.
//
// Decay and Oscillator are closed-form test problems. Dense is a stateful
// tanh block whose evaluation emits normalization statistics, the kind of
// auxiliary state the schemes thread with last-call-wins semantics.
package models
