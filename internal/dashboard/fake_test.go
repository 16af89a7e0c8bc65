package dashboard_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
)

// fakeAPI backend en memoria con contadores de llamadas y fallos inyectables.
type fakeAPI struct {
	mu          sync.Mutex
	calls       map[string]int
	businesses  []dto.BusinessResponse
	accountants []dto.AccountantResponse
	users       []dto.UserResponse
	linked      map[string][]string // user_id -> business ids

	assignErr  error
	removeErr  error
	roleErr    error
	listErr    error
	usersErr   error
	assignGate chan struct{}
	roleGate   chan struct{}
}

var (
	jane = dto.AccountantResponse{ID: "a-jane", UserID: "u-jane", FirstName: "Jane", LastName: "Doe",
		User: dto.UserResponse{ID: "u-jane", Email: "jane@example.com", Role: "accountant"}}
	john = dto.AccountantResponse{ID: "a-john", UserID: "u-john", FirstName: "John", LastName: "Smith",
		User: dto.UserResponse{ID: "u-john", Email: "john@example.com", Role: "accountant"}}

	rootUser  = &dto.UserResponse{ID: "u-root", Email: "admin@example.com", Role: "root_admin", FirstName: "Root", LastName: "Admin"}
	superUser = &dto.UserResponse{ID: "u-super", Email: "super@example.com", Role: "super_accountant"}
	janeUser  = &dto.UserResponse{ID: "u-jane", Email: "jane@example.com", Role: "accountant", FirstName: "Jane", LastName: "Doe"}
)

var sampleNames = []string{
	"Tech Solutions Inc", "Green Energy Co", "Global Logistics Ltd", "Creative Design Studio",
	"Healthcare Partners", "Financial Advisory Group", "Manufacturing Solutions", "Retail Innovations",
	"Construction Dynamics", "Legal Services Corp", "Marketing Masters", "Real Estate Partners",
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{
		calls:       map[string]int{},
		accountants: []dto.AccountantResponse{jane, john},
		users:       []dto.UserResponse{*rootUser, *superUser, *janeUser, john.User},
		linked:      map[string][]string{"u-jane": {"b-01", "b-02"}},
	}
	for i, name := range sampleNames {
		f.businesses = append(f.businesses, dto.BusinessResponse{
			ID:          fmt.Sprintf("b-%02d", i+1),
			Name:        name,
			IsActive:    true,
			Accountants: []dto.AccountantResponse{},
		})
	}
	return f
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func notFound(what string) error {
	return &client.Error{Kind: client.KindValidation, Status: 404, Message: what + " not found"}
}

func (f *fakeAPI) ListBusinesses(context.Context) ([]dto.BusinessResponse, error) {
	f.hit("ListBusinesses")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dto.BusinessResponse(nil), f.businesses...), nil
}

func (f *fakeAPI) UserBusinesses(_ context.Context, userID string) ([]dto.BusinessResponse, error) {
	f.hit("UserBusinesses")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []dto.BusinessResponse{}
	for _, id := range f.linked[userID] {
		for _, b := range f.businesses {
			if b.ID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (f *fakeAPI) GetBusiness(_ context.Context, id string) (*dto.BusinessResponse, error) {
	f.hit("GetBusiness")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.businesses {
		if b.ID == id {
			b.Accountants = append([]dto.AccountantResponse{}, b.Accountants...)
			return &b, nil
		}
	}
	return nil, notFound("Business")
}

func (f *fakeAPI) ListAccountants(context.Context) ([]dto.AccountantResponse, error) {
	f.hit("ListAccountants")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.AccountantResponse(nil), f.accountants...), nil
}

func (f *fakeAPI) AssignAccountant(_ context.Context, businessID, accountantID string) (*dto.MessageResponse, error) {
	f.hit("AssignAccountant")
	if f.assignGate != nil {
		<-f.assignGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	for i := range f.businesses {
		if f.businesses[i].ID != businessID {
			continue
		}
		if f.businesses[i].HasAccountant(accountantID) {
			return &dto.MessageResponse{Message: "Accountant assigned successfully"}, nil
		}
		for _, a := range f.accountants {
			if a.ID == accountantID {
				f.businesses[i].Accountants = append(f.businesses[i].Accountants, a)
				return &dto.MessageResponse{Message: "Accountant assigned successfully"}, nil
			}
		}
		return nil, notFound("Accountant")
	}
	return nil, notFound("Business")
}

func (f *fakeAPI) RemoveAccountant(_ context.Context, businessID, accountantID string) (*dto.MessageResponse, error) {
	f.hit("RemoveAccountant")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	for i := range f.businesses {
		if f.businesses[i].ID != businessID {
			continue
		}
		kept := []dto.AccountantResponse{}
		for _, a := range f.businesses[i].Accountants {
			if a.ID != accountantID {
				kept = append(kept, a)
			}
		}
		f.businesses[i].Accountants = kept
		return &dto.MessageResponse{Message: "Accountant removed successfully"}, nil
	}
	return nil, notFound("Business")
}

func (f *fakeAPI) ListUsers(context.Context) ([]dto.UserResponse, error) {
	f.hit("ListUsers")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]dto.UserResponse(nil), f.users...), nil
}

func (f *fakeAPI) AssignRole(_ context.Context, userID, newRole string, _ *string) (*dto.UserResponse, error) {
	f.hit("AssignRole")
	if f.roleGate != nil {
		<-f.roleGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Role = newRole
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, notFound("User")
}

// withAssigned deja el negocio con los contables indicados.
func (f *fakeAPI) withAssigned(businessID string, accs ...dto.AccountantResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.businesses {
		if f.businesses[i].ID == businessID {
			f.businesses[i].Accountants = append([]dto.AccountantResponse{}, accs...)
		}
	}
}

type fixedUser struct{ u *dto.UserResponse }

func (f fixedUser) RequireUser() (*dto.UserResponse, error) { return f.u, nil }
