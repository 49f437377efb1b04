package compose

// ExampleFile builds a small nginx + mongodb stack showing the model:
// a network shared by both services, a named volume for the database and a
// bind-mounted nginx configuration directory with rich options.
//
// The top-level networks and volumes sections are filled in from the services.
func ExampleFile(version string) (*ComposeFile, error) {
	netExternal, err := NewNetwork("net_external", false)
	if err != nil {
		return nil, err
	}

	volDatabase, err := NewVolume("db_data")
	if err != nil {
		return nil, err
	}
	volConf, err := NewVolume("./conf/")
	if err != nil {
		return nil, err
	}

	db := NewService("database", "mongodb")
	db.SetRestart(RestartUnlessStopped)
	db.AddNetwork(netExternal)
	db.AddVolume(volDatabase, "/data/db", nil)

	port, err := NewPort("8080", "8080")
	if err != nil {
		return nil, err
	}

	readOnly, noCopy, tmpfsSize := true, true, int64(1234)
	nginx := NewService("nginx", "nginx")
	nginx.AddPort(port)
	nginx.DependOn(db)
	nginx.SetRestart(RestartUnlessStopped)
	nginx.AddNetwork(netExternal)
	nginx.AddVolume(volConf, "/var/nginx/conf", &VolumeOptions{
		ReadOnly:    &readOnly,
		Volume:      &NamedVolumeOptions{NoCopy: &noCopy},
		Bind:        &BindOptions{Propagation: "propagation_value"},
		Tmpfs:       &TmpfsOptions{Size: &tmpfsSize},
		Consistency: "cached",
	})

	f, err := NewComposeFile(version)
	if err != nil {
		return nil, err
	}
	f.AddService(db)
	f.AddService(nginx)
	return f, nil
}
