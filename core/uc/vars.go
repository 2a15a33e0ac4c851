package uc

import "fmt"

// Variable name constructors. Result tables and tests address the instance
// through these; t is the position within the window, not the horizon label.

func VarGen(id string, t int) string { return fmt.Sprintf("gen[%s][%d]", id, t) }

func VarCommit(id string, t int) string { return fmt.Sprintf("commit[%s][%d]", id, t) }

func VarStart(id string, t int) string { return fmt.Sprintf("start[%s][%d]", id, t) }

func VarShut(id string, t int) string { return fmt.Sprintf("shut[%s][%d]", id, t) }

func VarRampUp(id string, t int) string { return fmt.Sprintf("rampup[%s][%d]", id, t) }

func VarRampDown(id string, t int) string { return fmt.Sprintf("rampdn[%s][%d]", id, t) }

func VarStable(id string, t int) string { return fmt.Sprintf("stable[%s][%d]", id, t) }

func VarOffset(id string, t int) string { return fmt.Sprintf("offset[%s][%d]", id, t) }

func VarDebit(id string, t int) string { return fmt.Sprintf("ddebit[%s][%d]", id, t) }

func VarCurtail(id string, t int) string { return fmt.Sprintf("curtail[%s][%d]", id, t) }

func VarNSE(t int) string { return fmt.Sprintf("nse[%d]", t) }

func VarCharge(t int) string { return fmt.Sprintf("charge[%d]", t) }

func VarDischarge(t int) string { return fmt.Sprintf("discharge[%d]", t) }

func VarSOC(t int) string { return fmt.Sprintf("soc[%d]", t) }

func VarChargeMode(t int) string { return fmt.Sprintf("chmode[%d]", t) }
