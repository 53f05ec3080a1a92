package payroll

import (
	"context"
	"fmt"
	"sync"
)

// EmployeeError is one employee's failure inside a batch run. Sibling
// computations are never aborted by it.
type EmployeeError struct {
	EmpCode string `json:"emp_code"`
	Message string `json:"message"`
}

func (e EmployeeError) Error() string {
	return fmt.Sprintf("employee %s: %s", e.EmpCode, e.Message)
}

// BatchResult collects per-employee results and per-employee errors.
// Both slices preserve the input employee order.
type BatchResult struct {
	Results []PayrollResult
	Errors  []EmployeeError
}

// RunBatch fans one computation per employee out across goroutines and
// fans the results back in. There is no ordering dependency between
// employees and no shared state inside fn; a panic or error in one
// employee's computation becomes an EmployeeError entry.
func RunBatch(
	ctx context.Context,
	empCodes []string,
	fn func(ctx context.Context, empCode string) (PayrollResult, error),
) BatchResult {
	type slot struct {
		result PayrollResult
		err    error
	}

	slots := make([]slot, len(empCodes))
	var wg sync.WaitGroup
	for i, code := range empCodes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i].err = fmt.Errorf("panic: %v", r)
				}
			}()
			slots[i].result, slots[i].err = fn(ctx, code)
		}(i, code)
	}
	wg.Wait()

	var batch BatchResult
	for i, s := range slots {
		if s.err != nil {
			batch.Errors = append(batch.Errors, EmployeeError{
				EmpCode: empCodes[i],
				Message: s.err.Error(),
			})
			continue
		}
		batch.Results = append(batch.Results, s.result)
	}
	return batch
}
